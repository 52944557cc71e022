package router

import (
	"context"
	"fmt"
)

// Decision is the outcome of evaluating a guard chain.
type Decision struct {
	Allowed bool

	// Redirect is the denying guard's redirect path, empty to block silently.
	Redirect string

	// Err is set when the denying guard failed rather than denied.
	Err error
}

// EvaluateGuards runs guards strictly in order against the route and path.
//
// An empty chain allows immediately. The first guard returning false stops
// the chain and its redirect is carried in the decision. A guard returning
// an error or panicking is treated identically to an explicit denial
// (fail-closed); guards that want fail-open semantics must absorb their own
// failures. No navigation side effect may occur until the chain has finished.
func EvaluateGuards(ctx context.Context, guards []Guard, route *Route, path string) Decision {
	for _, g := range guards {
		allowed, err := activate(ctx, g, route, path)
		if err != nil {
			return Decision{Allowed: false, Redirect: g.Redirect(), Err: err}
		}
		if !allowed {
			return Decision{Allowed: false, Redirect: g.Redirect()}
		}
	}
	return Decision{Allowed: true}
}

// activate invokes one guard, converting a panic into an error.
func activate(ctx context.Context, g Guard, route *Route, path string) (allowed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			allowed = false
			err = fmt.Errorf("guard panicked: %v", r)
		}
	}()
	return g.CanActivate(ctx, route, path)
}
