package history

import "sync"

// Memory is an in-process History implementation.
//
// It mirrors browser semantics: Push truncates any forward entries, Replace
// keeps the pointer in place, and Back/Forward dispatch pop events to
// listeners. The zero value is not usable; construct with NewMemory.
type Memory struct {
	mu        sync.Mutex
	entries   []Entry
	index     int
	listeners map[uint64]func(PopEvent)
	nextID    uint64
}

// NewMemory creates a memory history with a single initial entry.
func NewMemory(initialPath string) *Memory {
	return &Memory{
		entries:   []Entry{{Path: initialPath}},
		index:     0,
		listeners: make(map[uint64]func(PopEvent)),
	}
}

// Push appends a new entry, discarding any forward entries.
func (m *Memory) Push(path string, state any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries[:m.index+1], Entry{Path: path, State: state})
	m.index = len(m.entries) - 1
	return nil
}

// Replace overwrites the current entry.
func (m *Memory) Replace(path string, state any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.index] = Entry{Path: path, State: state}
	return nil
}

// Back moves one entry back and dispatches a pop event.
func (m *Memory) Back() {
	m.move(-1)
}

// Forward moves one entry forward and dispatches a pop event.
func (m *Memory) Forward() {
	m.move(1)
}

// Go moves the pointer by delta entries, clamped to the stack bounds.
func (m *Memory) Go(delta int) {
	m.move(delta)
}

func (m *Memory) move(delta int) {
	m.mu.Lock()
	target := m.index + delta
	if target < 0 || target >= len(m.entries) || delta == 0 {
		m.mu.Unlock()
		return
	}
	m.index = target
	entry := m.entries[m.index]

	// Copy before notify so listeners can unregister themselves.
	fns := make([]func(PopEvent), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	ev := PopEvent{Entry: entry, Delta: delta}
	for _, fn := range fns {
		fn(ev)
	}
}

// Location returns the current entry.
func (m *Memory) Location() Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Listen registers a pop-event listener.
func (m *Memory) Listen(fn func(PopEvent)) (remove func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Len returns the number of entries on the stack.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
