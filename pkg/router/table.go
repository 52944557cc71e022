package router

import (
	"github.com/pathline-dev/pathline/pkg/routepath"
)

// CatchAllPattern is the pattern of the fallback route consulted only after
// every literal and dynamic pattern has failed to match.
const CatchAllPattern = "*"

// Table maps normalized patterns to route registrations.
//
// Lookups try an exact pattern match first, then dynamic patterns in
// registration order (first match wins), then the catch-all. Re-registering
// a pattern overwrites the prior entry silently, keeping its position in the
// match order.
type Table struct {
	// byPattern holds every non-catch-all route, keyed by pattern.
	byPattern map[string]*Route

	// dynamic holds routes with :name segments in registration order.
	dynamic []*Route

	catchAll *Route
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{byPattern: make(map[string]*Route)}
}

// Add stores a registration under its pattern, replacing any prior entry.
func (t *Table) Add(route *Route) {
	if route.Pattern == CatchAllPattern {
		t.catchAll = route
		return
	}

	if prior, ok := t.byPattern[route.Pattern]; ok {
		t.byPattern[route.Pattern] = route
		// Keep the original slot in the dynamic match order.
		if prior.compiled != nil && prior.compiled.IsDynamic() {
			for i, r := range t.dynamic {
				if r == prior {
					t.dynamic[i] = route
					break
				}
			}
		}
		return
	}

	t.byPattern[route.Pattern] = route
	if route.compiled != nil && route.compiled.IsDynamic() {
		t.dynamic = append(t.dynamic, route)
	}
}

// Resolve matches a normalized path against the table.
//
// Returns the matched route and its URL-decoded parameters, or nil when
// nothing matches, signaling a not-found condition to the caller.
func (t *Table) Resolve(path string) (*Route, Params) {
	// Fast path: exact match against literal patterns only. A dynamic
	// route is keyed by its template text, and a path that happens to
	// spell the template (e.g. "/game/:id") must go through the matcher
	// like any other path.
	if route, ok := t.byPattern[path]; ok {
		if route.compiled == nil || !route.compiled.IsDynamic() {
			return route, Params{}
		}
	}

	// Dynamic patterns in registration order.
	for _, route := range t.dynamic {
		captures, ok := route.compiled.Match(path)
		if !ok {
			continue
		}
		params := make(Params, len(captures))
		for i, name := range route.compiled.ParamNames {
			params[name] = routepath.DecodeSegment(captures[i])
		}
		return route, params
	}

	if t.catchAll != nil {
		return t.catchAll, Params{}
	}

	return nil, nil
}

// Lookup returns the registration for an exact pattern, if present.
func (t *Table) Lookup(pattern string) (*Route, bool) {
	if pattern == CatchAllPattern {
		if t.catchAll == nil {
			return nil, false
		}
		return t.catchAll, true
	}
	route, ok := t.byPattern[pattern]
	return route, ok
}

// Len returns the number of registrations, including the catch-all.
func (t *Table) Len() int {
	n := len(t.byPattern)
	if t.catchAll != nil {
		n++
	}
	return n
}

// Clear removes every registration.
func (t *Table) Clear() {
	t.byPattern = make(map[string]*Route)
	t.dynamic = nil
	t.catchAll = nil
}
