// Package guards provides the standard route guards.
//
// Each guard is a stateless predicate over a reader interface; the router
// never computes authentication or session state itself. The readers are
// implemented by the application's stores (see pkg/appstate).
//
// AuthRequired and AdminRequired are fail-closed by construction: any doubt
// about the session denies. GuestOnly is also fail-closed at the chain level
// (a guard error denies); applications that prefer fail-open guest checks
// must absorb errors inside their own guard.
package guards

import (
	"context"

	"github.com/pathline-dev/pathline/pkg/router"
)

// SessionReader is the authentication collaborator contract.
type SessionReader interface {
	// Authenticated reports whether a user session is active.
	Authenticated() bool

	// TokenExpired reports whether the session token has lapsed.
	// An expired token makes an otherwise authenticated session invalid.
	TokenExpired() bool
}

// RoleReader extends the session with role information.
type RoleReader interface {
	SessionReader
	IsAdmin() bool
}

// GameSessionReader is the game-session collaborator contract.
type GameSessionReader interface {
	// ActiveGame reports whether the user is in a running game session.
	ActiveGame() bool
}

// AuthRequired denies unauthenticated (or token-expired) sessions,
// redirecting to the given path.
func AuthRequired(session SessionReader, redirect string) router.Guard {
	return router.NewGuard(redirect, func(context.Context, *router.Route, string) (bool, error) {
		return session.Authenticated() && !session.TokenExpired(), nil
	})
}

// GuestOnly denies authenticated sessions, redirecting to the given path.
// Used for login and registration pages.
func GuestOnly(session SessionReader, redirect string) router.Guard {
	return router.NewGuard(redirect, func(context.Context, *router.Route, string) (bool, error) {
		return !session.Authenticated() || session.TokenExpired(), nil
	})
}

// AdminRequired denies sessions without the admin role.
func AdminRequired(session RoleReader, redirect string) router.Guard {
	return router.NewGuard(redirect, func(context.Context, *router.Route, string) (bool, error) {
		return session.Authenticated() && !session.TokenExpired() && session.IsAdmin(), nil
	})
}

// GameSessionRequired denies navigation to in-game routes when no game
// session is active.
func GameSessionRequired(game GameSessionReader, redirect string) router.Guard {
	return router.NewGuard(redirect, func(context.Context, *router.Route, string) (bool, error) {
		return game.ActiveGame(), nil
	})
}
