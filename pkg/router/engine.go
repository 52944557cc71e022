package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pathline-dev/pathline/internal/errors"
	"github.com/pathline-dev/pathline/pkg/history"
	"github.com/pathline-dev/pathline/pkg/pattern"
	"github.com/pathline-dev/pathline/pkg/routepath"
)

// maxHops bounds internal redirect chains (guard denials, not-found).
const maxHops = 10

// Engine orchestrates navigation requests.
//
// Construct one engine per application instance with New, register routes,
// then call Init to wire the pop-event listener and resolve the initial
// location. After Destroy the engine is inert and must not be reused.
type Engine struct {
	history      history.History
	logger       *slog.Logger
	globalGuards []Guard
	authGuard    Guard
	notFound     string
	observers    []Observer

	mu           sync.Mutex
	table        *Table
	currentPath  string
	listeners    map[uint64]func(NavigationEvent)
	nextListener uint64
	initialized  bool
	destroyed    bool
	removePop    func()
}

// New creates an engine. The zero option set uses an in-memory history
// rooted at "/" and the default logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		table:     NewTable(),
		logger:    slog.Default(),
		listeners: make(map[uint64]func(NavigationEvent)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = history.NewMemory("/")
	}
	return e
}

// Register adds a route for the given pattern.
//
// The pattern is normalized before registration; registering the same
// pattern twice overwrites the prior entry silently. Patterns with dynamic
// segments are matched in registration order (see the package documentation).
// The catch-all pattern "*" may be registered once as the fallback.
func (e *Engine) Register(pat string, handler Handler, opts ...RouteOption) error {
	cfg := routeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	guards := cfg.guards
	if cfg.requireAuth {
		if e.authGuard == nil {
			return errors.New("R003").WithDetail("pattern %q", pat)
		}
		guards = append([]Guard{e.authGuard}, guards...)
	}

	route := &Route{
		Handler: handler,
		Guards:  guards,
		Meta:    cfg.meta,
		Title:   cfg.title,
	}

	if pat == CatchAllPattern {
		route.Pattern = CatchAllPattern
	} else {
		norm := routepath.Normalize(pat)
		compiled, err := pattern.Compile(norm)
		if err != nil {
			return err
		}
		route.Pattern = norm
		route.compiled = compiled
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return errors.New("R002")
	}
	e.table.Add(route)
	return nil
}

// Init wires the pop-event listener and resolves the current location.
// It is idempotent: a second call warns and does nothing. The initial
// resolution commits the current path but emits no navigation event.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return errors.New("R002")
	}
	if e.initialized {
		e.mu.Unlock()
		e.logger.Warn("engine already initialized")
		return nil
	}
	e.initialized = true
	e.removePop = e.history.Listen(e.handlePop)
	e.mu.Unlock()

	loc := e.history.Location()
	e.navigate(ctx, loc.Path, navOptions{replace: true}, NavReplace, 0, true)
	return nil
}

// Destroy removes the pop-event listener and clears the route table and all
// subscribers. It is idempotent and safe to call on an engine that was never
// initialized. A destroyed engine must not be reused.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	if e.removePop != nil {
		e.removePop()
		e.removePop = nil
	}
	e.table.Clear()
	e.listeners = make(map[uint64]func(NavigationEvent))
	e.initialized = false
	e.destroyed = true
}

// OnRouteChange subscribes to navigation events and returns the
// unsubscribe function.
func (e *Engine) OnRouteChange(fn func(NavigationEvent)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// CurrentPath returns the engine's committed path.
func (e *Engine) CurrentPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentPath
}

// Back delegates to the history stack's back operation.
func (e *Engine) Back() {
	e.history.Back()
}

// Forward delegates to the history stack's forward operation.
func (e *Engine) Forward() {
	e.history.Forward()
}

// Navigate resolves and commits a navigation to path.
//
// The path may carry a query string and fragment; only the pathname is
// matched. Navigating to the current path without WithReplace is a no-op.
// All failures (no match, guard denial, history fault, handler fault) are
// absorbed and reported through logging and events; Navigate never panics
// and never leaves the committed path inconsistent with the history entry.
func (e *Engine) Navigate(ctx context.Context, path string, opts ...NavigateOption) {
	o := navOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	navType := NavPush
	if o.replace {
		navType = NavReplace
	}
	e.navigate(ctx, path, o, navType, 0, false)
}

// navigate is the single navigation path for explicit calls, internal
// redirects, the initial resolution, and pop events.
func (e *Engine) navigate(ctx context.Context, rawPath string, o navOptions, navType NavType, hop int, initial bool) {
	start := time.Now()

	e.mu.Lock()
	if !e.initialized || e.destroyed {
		e.mu.Unlock()
		e.logger.Warn("navigation on inactive engine ignored", "path", rawPath)
		return
	}
	cur := e.currentPath
	e.mu.Unlock()

	pathOnly, rawQuery, _ := routepath.Split(rawPath)
	norm := routepath.Normalize(pathOnly)
	query := Query(routepath.ParseQuery(rawQuery))

	// Same-route navigation is suppressed to prevent redundant handler
	// re-invocation. Replace, pop, and the initial resolution are exempt.
	if norm == cur && !o.replace && !initial && navType != NavPop {
		return
	}

	e.mu.Lock()
	route, params := e.table.Resolve(norm)
	e.mu.Unlock()

	if route == nil {
		e.handleNotFound(ctx, cur, norm, query, o, navType, hop, initial, start)
		return
	}

	if !o.skipGuards && navType != NavPop {
		guards := make([]Guard, 0, len(e.globalGuards)+len(route.Guards))
		guards = append(guards, e.globalGuards...)
		guards = append(guards, route.Guards...)

		decision := EvaluateGuards(ctx, guards, route, norm)
		if !decision.Allowed {
			e.handleDenial(ctx, decision, route, cur, norm, params, query, o, navType, hop, initial, start)
			return
		}
	}

	// All guards finished; commit the history mutation before the handler
	// runs. Pop navigations and the initial resolution itself are already
	// at the right entry, but redirect hops spawned from the initial
	// resolution (hop > 0) must still replace it.
	if navType != NavPop && !(initial && hop == 0) {
		target := norm
		if rawQuery != "" {
			target += "?" + rawQuery
		}
		var err error
		if navType == NavReplace {
			err = e.history.Replace(target, o.state)
		} else {
			err = e.history.Push(target, o.state)
		}
		if err != nil {
			e.logger.Error("history mutation failed, navigation aborted",
				"path", norm, "type", string(navType), "error", err)
			e.observe(Observation{
				Event:    NavigationEvent{From: cur, To: norm, Params: params, Query: query, Type: navType},
				Pattern:  route.Pattern,
				Outcome:  OutcomeError,
				Duration: time.Since(start),
				Err:      err,
			})
			return
		}
	}

	e.mu.Lock()
	e.currentPath = norm
	e.mu.Unlock()

	outcome := OutcomeCommitted
	var handlerErr error
	if route.Handler != nil {
		if handlerErr = e.invoke(ctx, route.Handler, params, query); handlerErr != nil {
			// The navigation stays committed; recovery is the
			// application's responsibility.
			e.logger.Error("route handler failed", "path", norm, "pattern", route.Pattern, "error", handlerErr)
			outcome = OutcomeError
		}
	}

	ev := NavigationEvent{From: cur, To: norm, Params: params, Query: query, Type: navType}
	if !initial && !o.silent {
		e.emit(ev)
	}

	e.observe(Observation{
		Event:    ev,
		Pattern:  route.Pattern,
		Outcome:  outcome,
		Duration: time.Since(start),
		Err:      handlerErr,
	})
}

// handleNotFound redirects to the configured not-found route, or silently
// updates the path pointer when none is configured or it is already current.
func (e *Engine) handleNotFound(ctx context.Context, cur, norm string, query Query, o navOptions, navType NavType, hop int, initial bool, start time.Time) {
	e.observe(Observation{
		Event:    NavigationEvent{From: cur, To: norm, Query: query, Type: navType},
		Outcome:  OutcomeNotFound,
		Duration: time.Since(start),
	})

	if e.notFound != "" && cur != e.notFound && norm != e.notFound && hop < maxHops {
		e.logger.Debug("no route matched, redirecting", "path", norm, "to", e.notFound)
		e.navigate(ctx, e.notFound, navOptions{replace: true, silent: o.silent}, NavReplace, hop+1, initial)
		return
	}

	e.logger.Debug("no route matched", "path", norm)
	e.mu.Lock()
	e.currentPath = norm
	e.mu.Unlock()
}

// handleDenial performs the guard-denial redirect, or blocks silently and
// emits a blocked event.
func (e *Engine) handleDenial(ctx context.Context, decision Decision, route *Route, cur, norm string, params Params, query Query, o navOptions, navType NavType, hop int, initial bool, start time.Time) {
	if decision.Err != nil {
		e.logger.Warn("guard failed, navigation denied", "path", norm, "error", decision.Err)
	} else {
		e.logger.Debug("navigation denied by guard", "path", norm, "redirect", decision.Redirect)
	}

	ev := NavigationEvent{From: cur, To: norm, Params: params, Query: query, Type: navType, Blocked: true}
	e.observe(Observation{
		Event:    ev,
		Pattern:  route.Pattern,
		Outcome:  OutcomeBlocked,
		Duration: time.Since(start),
		Err:      decision.Err,
	})

	if decision.Redirect != "" && hop < maxHops {
		// Guards are skipped for this single hop to avoid infinite
		// guard loops.
		e.navigate(ctx, decision.Redirect,
			navOptions{replace: true, silent: o.silent, skipGuards: true},
			NavReplace, hop+1, initial)
		return
	}

	if !initial && !o.silent {
		e.emit(ev)
	}
}

// handlePop services browser back/forward. Guard evaluation is bypassed by
// design; see the package documentation.
func (e *Engine) handlePop(ev history.PopEvent) {
	e.navigate(context.Background(), ev.Entry.Path, navOptions{}, NavPop, 0, false)
}

// invoke runs a handler, converting a panic into an error.
func (e *Engine) invoke(ctx context.Context, h Handler, params Params, query Query) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, params, query)
}

// emit broadcasts an event to all subscribers. A panicking subscriber is
// recovered and logged; remaining subscribers still run.
func (e *Engine) emit(ev NavigationEvent) {
	e.mu.Lock()
	fns := make([]func(NavigationEvent), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("route-change listener panicked", "panic", r)
				}
			}()
			fn(ev)
		}()
	}
}

// observe reports a navigation to all observers.
func (e *Engine) observe(obs Observation) {
	for _, o := range e.observers {
		o.ObserveNavigation(obs)
	}
}
