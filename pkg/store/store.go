package store

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/pathline-dev/pathline/internal/errors"
)

// Option configures a Base container.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report subscriber panics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Base is the generic reactive state container.
// The state type T must be a struct; New panics otherwise.
type Base[T any] struct {
	mu    sync.RWMutex
	state T

	subMu  sync.Mutex
	subs   map[uint64]func(T)
	nextID uint64

	// queue serializes asynchronous notification in commit order.
	queueMu  sync.Mutex
	queue    []delivery[T]
	draining bool

	logger *slog.Logger
}

// delivery is one committed state plus the subscribers to notify with it.
type delivery[T any] struct {
	state T
	subs  []func(T)
}

// New creates a container holding a copy of the initial state.
//
// The state type must be a struct so commits can be compared field by field;
// any other kind is a programmer error and panics.
func New[T any](initial T, opts ...Option) *Base[T] {
	if reflect.TypeOf(initial) == nil || reflect.TypeOf(initial).Kind() != reflect.Struct {
		panic(errors.New("S001").WithDetail("got %T", initial))
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Base[T]{
		state:  deepCopy(initial),
		subs:   make(map[uint64]func(T)),
		logger: o.logger,
	}
}

// Get returns the current state.
// The returned value is an isolated copy: mutating it never changes what a
// subsequent Get observes.
func (b *Base[T]) Get() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return deepCopy(b.state)
}

// Subscribe registers a listener and returns its unsubscribe function.
// The listener receives a private copy of each newly committed state.
func (b *Base[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

// ClearSubscribers removes all listeners. Intended for test teardown.
func (b *Base[T]) ClearSubscribers() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.subs = make(map[uint64]func(T))
}

// Set applies a mutation to a copy of the current state and commits the
// result if anything changed.
//
// The mutation receives a copy, so unchanged fields carry over (a shallow
// merge in effect). The commit is suppressed when no exported field differs
// from the current state, and in that case no subscriber is notified.
func (b *Base[T]) Set(mutate func(*T)) {
	b.mu.Lock()
	next := deepCopy(b.state)
	mutate(&next)
	changed := stateChanged(b.state, next)
	if changed {
		b.state = next
	}
	b.mu.Unlock()

	if changed {
		b.scheduleNotify(next)
	}
}

// Replace commits the given state unconditionally and always notifies.
// Used for full resets and snapshot hydration.
func (b *Base[T]) Replace(next T) {
	copied := deepCopy(next)

	b.mu.Lock()
	b.state = copied
	b.mu.Unlock()

	b.scheduleNotify(copied)
}

// scheduleNotify queues a delivery for the committed state and starts the
// drain goroutine if one is not already running.
func (b *Base[T]) scheduleNotify(state T) {
	// Snapshot subscribers at commit time.
	b.subMu.Lock()
	subs := make([]func(T), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.subMu.Unlock()

	b.queueMu.Lock()
	b.queue = append(b.queue, delivery[T]{state: state, subs: subs})
	if b.draining {
		b.queueMu.Unlock()
		return
	}
	b.draining = true
	b.queueMu.Unlock()

	go b.drain()
}

// drain delivers queued notifications in commit order.
func (b *Base[T]) drain() {
	for {
		b.queueMu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.queueMu.Unlock()
			return
		}
		d := b.queue[0]
		b.queue = b.queue[1:]
		b.queueMu.Unlock()

		for _, fn := range d.subs {
			b.notify(fn, d.state)
		}
	}
}

// notify invokes one subscriber with its own state copy, recovering panics
// so one failing subscriber cannot prevent the rest from being notified.
func (b *Base[T]) notify(fn func(T), state T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("store subscriber panicked", "panic", r)
		}
	}()
	fn(deepCopy(state))
}

// stateChanged compares two states field by field.
// Only exported fields participate; unexported fields are invisible to
// reflection and should not be used in state types.
func stateChanged[T any](old, next T) bool {
	ov := reflect.ValueOf(old)
	nv := reflect.ValueOf(next)
	t := ov.Type()

	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		if !reflect.DeepEqual(ov.Field(i).Interface(), nv.Field(i).Interface()) {
			return true
		}
	}
	return false
}
