// Package appstate holds the application's concrete state stores.
//
// Every store embeds store.Base and exposes domain mutators; the guard
// reader interfaces (pkg/guards) are implemented on top of Get. The
// application composes one instance of each store at startup and passes
// references down — there are no package-level singletons.
package appstate

import (
	"time"

	"github.com/pathline-dev/pathline/pkg/store"
)

// AuthState is the session/auth store state.
type AuthState struct {
	Authenticated bool
	User          string
	Admin         bool
	TokenExpiry   time.Time
}

// AuthStore tracks the authenticated session. It implements
// guards.SessionReader and guards.RoleReader.
type AuthStore struct {
	*store.Base[AuthState]
}

// NewAuthStore creates a logged-out auth store.
func NewAuthStore(opts ...store.Option) *AuthStore {
	return &AuthStore{Base: store.New(AuthState{}, opts...)}
}

// Login commits an authenticated session.
func (s *AuthStore) Login(user string, admin bool, tokenExpiry time.Time) {
	s.Set(func(st *AuthState) {
		st.Authenticated = true
		st.User = user
		st.Admin = admin
		st.TokenExpiry = tokenExpiry
	})
}

// Logout resets the store to the logged-out state.
func (s *AuthStore) Logout() {
	s.Replace(AuthState{})
}

// Authenticated implements guards.SessionReader.
func (s *AuthStore) Authenticated() bool {
	return s.Get().Authenticated
}

// TokenExpired implements guards.SessionReader. A zero expiry never expires.
func (s *AuthStore) TokenExpired() bool {
	st := s.Get()
	return !st.TokenExpiry.IsZero() && time.Now().After(st.TokenExpiry)
}

// IsAdmin implements guards.RoleReader.
func (s *AuthStore) IsAdmin() bool {
	return s.Get().Admin
}
