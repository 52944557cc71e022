// Package history abstracts the browser history stack.
//
// The navigation engine talks to the browser exclusively through the History
// interface: pushState/replaceState become Push/Replace, popstate becomes a
// Listen callback. Memory is the in-process implementation used for tests and
// for bootstrapping server-side sessions; the live package provides the
// WebSocket-bridged implementation backed by a real browser.
package history

// Entry is one history stack entry.
type Entry struct {
	// Path is the full path including any query string.
	Path string

	// State is the opaque state object attached to the entry.
	State any
}

// PopEvent is delivered to listeners when the stack pointer moves without a
// Push or Replace, i.e. the equivalent of the browser popstate event.
type PopEvent struct {
	Entry Entry

	// Delta is the pointer movement: negative for back, positive for forward.
	Delta int
}

// History is the browser history collaborator.
// Implementations must be safe for concurrent use.
type History interface {
	// Push appends a new entry and moves the pointer to it.
	Push(path string, state any) error

	// Replace overwrites the current entry in place.
	Replace(path string, state any) error

	// Back moves the pointer one entry back, dispatching a pop event.
	// Moving past the start of the stack is a no-op.
	Back()

	// Forward moves the pointer one entry forward, dispatching a pop event.
	// Moving past the end of the stack is a no-op.
	Forward()

	// Location returns the current entry.
	Location() Entry

	// Listen registers a pop-event listener and returns its remover.
	Listen(fn func(PopEvent)) (remove func())
}
