// Package pathline is the application entry point. It ties the route
// blueprint, guard chain, and state stores together and hands out
// per-session navigation engines.
//
// Routes are declared once on an App; each browser session (or headless
// test) gets its own engine built from that declaration:
//
//	app := pathline.New(
//	    pathline.WithNotFound("/404"),
//	    pathline.WithAuthGuard(guards.AuthRequired("/login", sessions)),
//	)
//	app.Route("/", homeHandler)
//	app.Route("/game/:id", gameHandler, router.RequireAuth())
//
//	http.Handle("/live", live.NewServer(app.Blueprint()))
package pathline

import (
	"context"
	"log/slog"

	"github.com/pathline-dev/pathline/pkg/history"
	"github.com/pathline-dev/pathline/pkg/live"
	"github.com/pathline-dev/pathline/pkg/router"
)

// routeDef is one recorded route declaration.
type routeDef struct {
	pattern string
	handler router.Handler
	opts    []router.RouteOption
}

// App holds the application's route declarations and shared engine
// options. It is safe to build engines from one App concurrently once
// route registration is finished.
type App struct {
	routes     []routeDef
	engineOpts []router.Option
	logger     *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger passed to every engine.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithNotFound sets the route navigated to when no pattern matches.
func WithNotFound(path string) Option {
	return func(a *App) {
		a.engineOpts = append(a.engineOpts, router.WithNotFound(path))
	}
}

// WithAuthGuard sets the guard applied to routes registered with
// router.RequireAuth.
func WithAuthGuard(g router.Guard) Option {
	return func(a *App) {
		a.engineOpts = append(a.engineOpts, router.WithAuthGuard(g))
	}
}

// WithGlobalGuards prepends guards to every route's chain.
func WithGlobalGuards(guards ...router.Guard) Option {
	return func(a *App) {
		a.engineOpts = append(a.engineOpts, router.WithGlobalGuards(guards...))
	}
}

// WithObservers attaches navigation observers to every engine.
func WithObservers(obs ...router.Observer) Option {
	return func(a *App) {
		a.engineOpts = append(a.engineOpts, router.WithObservers(obs...))
	}
}

// New creates an App.
func New(opts ...Option) *App {
	a := &App{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Route records a route declaration. Pattern errors surface when an
// engine is built, so declaration sites stay clean.
func (a *App) Route(pattern string, handler router.Handler, opts ...router.RouteOption) *App {
	a.routes = append(a.routes, routeDef{pattern: pattern, handler: handler, opts: opts})
	return a
}

// Engine builds a fresh, uninitialized engine over the given history.
// The first invalid route declaration aborts the build.
func (a *App) Engine(h history.History) (*router.Engine, error) {
	opts := make([]router.Option, 0, len(a.engineOpts)+2)
	opts = append(opts, a.engineOpts...)
	opts = append(opts, router.WithHistory(h), router.WithLogger(a.logger))

	engine := router.New(opts...)
	for _, def := range a.routes {
		if err := engine.Register(def.pattern, def.handler, def.opts...); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// Blueprint adapts the App for the live WebSocket server. Each connected
// browser gets its own engine with the session as its history.
func (a *App) Blueprint() live.Blueprint {
	return func(s *live.Session) (*router.Engine, error) {
		return a.Engine(s)
	}
}

// Headless builds and initializes an engine over an in-memory history
// rooted at initialPath. Intended for tests and server-side rendering.
func (a *App) Headless(ctx context.Context, initialPath string) (*router.Engine, error) {
	engine, err := a.Engine(history.NewMemory(initialPath))
	if err != nil {
		return nil, err
	}
	if err := engine.Init(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}
