package router

import (
	"log/slog"
	"time"

	"github.com/pathline-dev/pathline/pkg/history"
)

// Outcome classifies how a navigation ended, for observers.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeNotFound  Outcome = "notfound"
	OutcomeError     Outcome = "error"
)

// Observation is delivered to engine observers once per navigation attempt.
type Observation struct {
	Event NavigationEvent

	// Pattern is the matched route pattern, empty when nothing matched.
	Pattern string

	Outcome  Outcome
	Duration time.Duration

	// Err carries the guard, history, or handler failure for OutcomeError
	// and failed OutcomeBlocked observations.
	Err error
}

// Observer receives navigation observations. Implementations must not block.
type Observer interface {
	ObserveNavigation(obs Observation)
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory sets the history collaborator.
// Defaults to an in-memory history rooted at "/".
func WithHistory(h history.History) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGlobalGuards prepends guards to every route's chain.
func WithGlobalGuards(guards ...Guard) Option {
	return func(e *Engine) {
		e.globalGuards = append(e.globalGuards, guards...)
	}
}

// WithAuthGuard sets the guard applied to routes registered with RequireAuth.
func WithAuthGuard(g Guard) Option {
	return func(e *Engine) {
		e.authGuard = g
	}
}

// WithNotFound sets the route navigated to, as a replace, when no pattern
// matches. Without it, unmatched paths update the path pointer silently.
func WithNotFound(path string) Option {
	return func(e *Engine) {
		e.notFound = path
	}
}

// WithObservers attaches navigation observers.
func WithObservers(obs ...Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, obs...)
	}
}

// RouteOption configures a single registration.
type RouteOption func(*routeConfig)

type routeConfig struct {
	guards      []Guard
	meta        map[string]any
	title       string
	requireAuth bool
}

// WithGuards appends route-specific guards, evaluated after global guards
// in the given order.
func WithGuards(guards ...Guard) RouteOption {
	return func(c *routeConfig) {
		c.guards = append(c.guards, guards...)
	}
}

// WithMeta attaches opaque metadata to the registration.
func WithMeta(meta map[string]any) RouteOption {
	return func(c *routeConfig) {
		c.meta = meta
	}
}

// WithTitle attaches a title to the registration. Not interpreted by the
// engine.
func WithTitle(title string) RouteOption {
	return func(c *routeConfig) {
		c.title = title
	}
}

// RequireAuth prepends the engine's configured auth guard to the route.
// Registration fails if the engine has none.
func RequireAuth() RouteOption {
	return func(c *routeConfig) {
		c.requireAuth = true
	}
}

// NavigateOption configures a single Navigate call.
type NavigateOption func(*navOptions)

type navOptions struct {
	replace    bool
	state      any
	silent     bool
	skipGuards bool
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *navOptions) {
		o.replace = true
	}
}

// WithState attaches an opaque state object to the history entry.
func WithState(state any) NavigateOption {
	return func(o *navOptions) {
		o.state = state
	}
}

// WithSilent suppresses the navigation event for this call.
func WithSilent() NavigateOption {
	return func(o *navOptions) {
		o.silent = true
	}
}

// WithSkipGuards bypasses guard evaluation for this call.
func WithSkipGuards() NavigateOption {
	return func(o *navOptions) {
		o.skipGuards = true
	}
}
