package router

import (
	"context"

	"github.com/pathline-dev/pathline/pkg/pattern"
)

// Params are the URL-decoded values of the :name segments of the matched
// pattern, keyed by parameter name.
type Params map[string]string

// Query is the flat key→value form of the query string.
// Duplicate keys keep the last value.
type Query map[string]string

// Handler is invoked for a committed navigation with the extracted route
// parameters and parsed query. A returned error is absorbed by the engine
// and logged; it never propagates out of Navigate and never rolls back the
// committed history entry.
type Handler func(ctx context.Context, params Params, query Query) error

// Guard decides whether a navigation to a route may proceed.
//
// CanActivate is evaluated before any navigation side effect. Returning
// false denies; returning an error (or panicking) denies fail-closed.
// Redirect is the path navigated to on denial; empty means block silently.
type Guard interface {
	CanActivate(ctx context.Context, route *Route, path string) (bool, error)
	Redirect() string
}

// guardFunc adapts a predicate function to the Guard interface.
type guardFunc struct {
	redirect string
	fn       func(ctx context.Context, route *Route, path string) (bool, error)
}

func (g guardFunc) CanActivate(ctx context.Context, route *Route, path string) (bool, error) {
	return g.fn(ctx, route, path)
}

func (g guardFunc) Redirect() string {
	return g.redirect
}

// NewGuard builds a Guard from a predicate and its denial redirect.
func NewGuard(redirect string, fn func(ctx context.Context, route *Route, path string) (bool, error)) Guard {
	return guardFunc{redirect: redirect, fn: fn}
}

// Route is one registered pattern.
type Route struct {
	// Pattern is the normalized path template, unique in the table.
	Pattern string

	// Handler runs after a navigation to this route commits.
	Handler Handler

	// Guards are the route-specific guards. Global guards are prepended
	// at evaluation time.
	Guards []Guard

	// Meta and Title are opaque to the engine.
	Meta  map[string]any
	Title string

	// compiled is nil for the catch-all route.
	compiled *pattern.Compiled
}

// NavType distinguishes how a navigation entered the engine.
type NavType string

const (
	// NavPush is an explicit navigation that pushes a history entry.
	NavPush NavType = "push"

	// NavReplace is an explicit navigation that replaces the current entry.
	NavReplace NavType = "replace"

	// NavPop is a browser back/forward navigation.
	NavPop NavType = "pop"
)

// NavigationEvent is broadcast to route-change subscribers once per
// completed or blocked navigation, then discarded.
type NavigationEvent struct {
	// From is the previous path, empty for the first navigation.
	From string

	// To is the normalized target path.
	To string

	Params Params
	Query  Query
	Type   NavType

	// Blocked marks a navigation denied by a guard without a redirect.
	Blocked bool
}
