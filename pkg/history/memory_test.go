package history

import "testing"

func TestMemoryPushReplace(t *testing.T) {
	h := NewMemory("/")

	h.Push("/profile", nil)
	if got := h.Location().Path; got != "/profile" {
		t.Errorf("Location = %q, want /profile", got)
	}

	h.Replace("/login", "state")
	if got := h.Location(); got.Path != "/login" || got.State != "state" {
		t.Errorf("Location = %+v, want /login with state", got)
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2 (replace keeps stack size)", h.Len())
	}
}

func TestMemoryPushTruncatesForward(t *testing.T) {
	h := NewMemory("/")
	h.Push("/a", nil)
	h.Push("/b", nil)
	h.Back()

	h.Push("/c", nil)
	if h.Len() != 3 {
		t.Errorf("Len = %d, want 3 (forward entries discarded)", h.Len())
	}
	if got := h.Location().Path; got != "/c" {
		t.Errorf("Location = %q, want /c", got)
	}
	// /b is gone.
	h.Forward()
	if got := h.Location().Path; got != "/c" {
		t.Errorf("Forward past end moved to %q", got)
	}
}

func TestMemoryBackForwardDispatchesPop(t *testing.T) {
	h := NewMemory("/")
	h.Push("/a", nil)
	h.Push("/b", nil)

	var events []PopEvent
	remove := h.Listen(func(ev PopEvent) {
		events = append(events, ev)
	})

	h.Back()
	h.Forward()

	if len(events) != 2 {
		t.Fatalf("got %d pop events, want 2", len(events))
	}
	if events[0].Entry.Path != "/a" || events[0].Delta != -1 {
		t.Errorf("back event = %+v", events[0])
	}
	if events[1].Entry.Path != "/b" || events[1].Delta != 1 {
		t.Errorf("forward event = %+v", events[1])
	}

	remove()
	h.Back()
	if len(events) != 2 {
		t.Error("removed listener still notified")
	}
}

func TestMemoryBoundsClamped(t *testing.T) {
	h := NewMemory("/")

	h.Back() // No-op at the start of the stack.
	if got := h.Location().Path; got != "/" {
		t.Errorf("Location = %q after Back at start", got)
	}

	h.Forward() // No-op at the end.
	if got := h.Location().Path; got != "/" {
		t.Errorf("Location = %q after Forward at end", got)
	}

	h.Push("/a", nil)
	h.Go(-5)
	if got := h.Location().Path; got != "/a" {
		t.Errorf("Go past start moved to %q", got)
	}
}
