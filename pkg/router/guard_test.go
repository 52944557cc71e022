package router

import (
	"context"
	"errors"
	"testing"
)

func allowGuard() Guard {
	return NewGuard("", func(context.Context, *Route, string) (bool, error) {
		return true, nil
	})
}

func denyGuard(redirect string) Guard {
	return NewGuard(redirect, func(context.Context, *Route, string) (bool, error) {
		return false, nil
	})
}

func TestEvaluateGuardsEmptyChainAllows(t *testing.T) {
	d := EvaluateGuards(context.Background(), nil, &Route{}, "/x")
	if !d.Allowed {
		t.Error("empty chain should allow")
	}
}

func TestEvaluateGuardsShortCircuit(t *testing.T) {
	var secondCalled bool
	second := NewGuard("", func(context.Context, *Route, string) (bool, error) {
		secondCalled = true
		return true, nil
	})

	d := EvaluateGuards(context.Background(), []Guard{denyGuard("/a"), second}, &Route{}, "/x")
	if d.Allowed {
		t.Error("chain should deny")
	}
	if d.Redirect != "/a" {
		t.Errorf("Redirect = %q, want /a", d.Redirect)
	}
	if secondCalled {
		t.Error("guard after the denial must not be invoked")
	}
}

func TestEvaluateGuardsOrder(t *testing.T) {
	var order []int
	mk := func(n int) Guard {
		return NewGuard("", func(context.Context, *Route, string) (bool, error) {
			order = append(order, n)
			return true, nil
		})
	}

	d := EvaluateGuards(context.Background(), []Guard{mk(1), mk(2), mk(3)}, &Route{}, "/x")
	if !d.Allowed {
		t.Fatal("chain should allow")
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("guards ran out of order: %v", order)
	}
}

func TestEvaluateGuardsErrorIsFailClosed(t *testing.T) {
	failing := NewGuard("/login", func(context.Context, *Route, string) (bool, error) {
		return true, errors.New("session backend down")
	})

	d := EvaluateGuards(context.Background(), []Guard{failing}, &Route{}, "/x")
	if d.Allowed {
		t.Error("failing guard must deny")
	}
	if d.Redirect != "/login" {
		t.Errorf("Redirect = %q, want the failing guard's redirect", d.Redirect)
	}
	if d.Err == nil {
		t.Error("decision should carry the guard error")
	}
}

func TestEvaluateGuardsPanicIsFailClosed(t *testing.T) {
	panicking := NewGuard("/login", func(context.Context, *Route, string) (bool, error) {
		panic("boom")
	})
	var afterCalled bool
	after := NewGuard("", func(context.Context, *Route, string) (bool, error) {
		afterCalled = true
		return true, nil
	})

	d := EvaluateGuards(context.Background(), []Guard{panicking, after}, &Route{}, "/x")
	if d.Allowed {
		t.Error("panicking guard must deny")
	}
	if d.Err == nil {
		t.Error("decision should carry the recovered panic")
	}
	if afterCalled {
		t.Error("chain must stop at the panicking guard")
	}
}

func TestEvaluateGuardsReceivesRouteAndPath(t *testing.T) {
	route := &Route{Pattern: "/game/:id"}
	var gotPattern, gotPath string
	g := NewGuard("", func(_ context.Context, r *Route, p string) (bool, error) {
		gotPattern = r.Pattern
		gotPath = p
		return true, nil
	})

	EvaluateGuards(context.Background(), []Guard{g}, route, "/game/42")
	if gotPattern != "/game/:id" || gotPath != "/game/42" {
		t.Errorf("guard saw (%q, %q)", gotPattern, gotPath)
	}
}
