package store

import (
	"sync"
	"testing"
	"time"
)

type testState struct {
	Count   int
	Name    string
	Tags    []string
	Nested  *nested
	Lookup  map[string]int
	Blocked bool
}

type nested struct {
	Value int
}

func waitFor(t *testing.T, ch <-chan testState) testState {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return testState{}
	}
}

func TestNewRejectsNonStructState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New with a non-struct state type should panic")
		}
	}()
	_ = New(42)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	b := New(testState{
		Count:  1,
		Tags:   []string{"a", "b"},
		Nested: &nested{Value: 7},
		Lookup: map[string]int{"x": 1},
	})

	got := b.Get()
	got.Count = 99
	got.Tags[0] = "mutated"
	got.Nested.Value = 99
	got.Lookup["x"] = 99

	// Mutation of the returned value never affects subsequent reads.
	again := b.Get()
	if again.Count != 1 || again.Tags[0] != "a" || again.Nested.Value != 7 || again.Lookup["x"] != 1 {
		t.Errorf("committed state was mutated through a Get copy: %+v", again)
	}
}

func TestSetCommitsAndNotifies(t *testing.T) {
	b := New(testState{Count: 1})
	ch := make(chan testState, 1)
	b.Subscribe(func(s testState) { ch <- s })

	b.Set(func(s *testState) {
		s.Count = 2
	})

	got := waitFor(t, ch)
	if got.Count != 2 {
		t.Errorf("notified state Count = %d, want 2", got.Count)
	}
	if b.Get().Count != 2 {
		t.Errorf("Get().Count = %d, want 2", b.Get().Count)
	}
}

func TestSetCarriesOverUnchangedFields(t *testing.T) {
	b := New(testState{Count: 1, Name: "alice", Tags: []string{"t"}})

	b.Set(func(s *testState) {
		s.Count = 2
	})

	got := b.Get()
	if got.Name != "alice" || len(got.Tags) != 1 {
		t.Errorf("unchanged fields not carried over: %+v", got)
	}
}

func TestSetSuppressesNoOpCommit(t *testing.T) {
	b := New(testState{Count: 1, Name: "alice"})
	ch := make(chan testState, 4)
	b.Subscribe(func(s testState) { ch <- s })

	// Writing the current values back is not a change.
	b.Set(func(s *testState) {
		s.Count = 1
		s.Name = "alice"
	})
	// An untouched state is not a change either.
	b.Set(func(s *testState) {})

	select {
	case s := <-ch:
		t.Errorf("unexpected notification for no-op commit: %+v", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestReplaceAlwaysNotifies(t *testing.T) {
	b := New(testState{Count: 1})
	ch := make(chan testState, 2)
	b.Subscribe(func(s testState) { ch <- s })

	// Replace with an identical state still notifies (hydration semantics).
	b.Replace(testState{Count: 1})

	got := waitFor(t, ch)
	if got.Count != 1 {
		t.Errorf("notified state Count = %d, want 1", got.Count)
	}
}

func TestNotificationsDeliveredInCommitOrder(t *testing.T) {
	b := New(testState{})

	var mu sync.Mutex
	var seen []int
	done := make(chan struct{}, 10)
	b.Subscribe(func(s testState) {
		mu.Lock()
		seen = append(seen, s.Count)
		mu.Unlock()
		done <- struct{}{}
	})

	for i := 1; i <= 5; i++ {
		n := i
		b.Set(func(s *testState) { s.Count = n })
	}

	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notifications")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("notifications out of order: %v", seen)
		}
	}
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	b := New(testState{})
	ch := make(chan testState, 1)

	b.Subscribe(func(s testState) { panic("listener fault") })
	b.Subscribe(func(s testState) { ch <- s })

	b.Set(func(s *testState) { s.Count = 1 })

	got := waitFor(t, ch)
	if got.Count != 1 {
		t.Errorf("surviving subscriber got Count = %d, want 1", got.Count)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	b := New(testState{})
	ch := make(chan testState, 2)
	unsubscribe := b.Subscribe(func(s testState) { ch <- s })

	unsubscribe()
	b.Set(func(s *testState) { s.Count = 1 })

	select {
	case <-ch:
		t.Error("unsubscribed listener was notified")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriberReentrantSet(t *testing.T) {
	b := New(testState{})
	done := make(chan struct{}, 4)

	// A subscriber calling Set must not deadlock.
	b.Subscribe(func(s testState) {
		if s.Count == 1 && !s.Blocked {
			b.Set(func(next *testState) { next.Blocked = true })
		}
		done <- struct{}{}
	})

	b.Set(func(s *testState) { s.Count = 1 })

	// First commit plus the re-entrant one.
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("re-entrant Set deadlocked")
		}
	}
	if !b.Get().Blocked {
		t.Error("re-entrant commit not applied")
	}
}

func TestClearSubscribers(t *testing.T) {
	b := New(testState{})
	ch := make(chan testState, 1)
	b.Subscribe(func(s testState) { ch <- s })

	b.ClearSubscribers()
	b.Set(func(s *testState) { s.Count = 1 })

	select {
	case <-ch:
		t.Error("cleared subscriber was notified")
	case <-time.After(100 * time.Millisecond):
	}
}
