// Package router implements the guarded client-navigation engine.
//
// The engine resolves a path against a table of registered route patterns,
// evaluates the route's guard chain, keeps the history collaborator in sync,
// invokes the matched handler with extracted parameters, and broadcasts a
// navigation event to subscribers.
//
// # Registration order
//
// Dynamic patterns are tested in registration order and the first match wins.
// Registration order is therefore load-bearing for overlapping patterns:
// register /game/new before /game/:id, or /game/new will never match.
// The catch-all pattern "*" is consulted only after every literal and dynamic
// pattern has failed.
//
// # Guards
//
// Guards run strictly in order, global guards first, then route guards. The
// first guard to deny stops the chain; its redirect, if any, is navigated to
// as a replace with guards skipped for that single hop. A guard that returns
// an error or panics denies fail-closed. No history mutation or handler
// invocation happens until every guard has finished.
//
// # Browser back/forward
//
// Pop navigations (browser back/forward) bypass guard evaluation: a
// browser-initiated history change cannot be blocked after the fact without
// producing confusing back-button semantics. A user can therefore navigate
// back into a page whose guard would now deny. This is a known trade-off,
// not an oversight; applications that cannot accept it should re-check
// access inside the affected route handlers.
package router
