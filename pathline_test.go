package pathline

import (
	"context"
	"testing"

	"github.com/pathline-dev/pathline/pkg/router"
)

func TestHeadlessEngineNavigates(t *testing.T) {
	var visited []string
	record := func(name string) router.Handler {
		return func(ctx context.Context, params router.Params, query router.Query) error {
			visited = append(visited, name)
			return nil
		}
	}

	app := New()
	app.Route("/", record("home")).
		Route("/game/:id", record("game"))

	engine, err := app.Headless(context.Background(), "/")
	if err != nil {
		t.Fatalf("headless: %v", err)
	}
	defer engine.Destroy()

	engine.Navigate(context.Background(), "/game/42")

	if engine.CurrentPath() != "/game/42" {
		t.Errorf("current path = %q", engine.CurrentPath())
	}
	want := []string{"home", "game"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestEnginesAreIndependent(t *testing.T) {
	app := New()
	app.Route("/", func(ctx context.Context, params router.Params, query router.Query) error { return nil })
	app.Route("/lobby", func(ctx context.Context, params router.Params, query router.Query) error { return nil })

	first, err := app.Headless(context.Background(), "/")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	defer first.Destroy()

	second, err := app.Headless(context.Background(), "/")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	defer second.Destroy()

	first.Navigate(context.Background(), "/lobby")

	if first.CurrentPath() != "/lobby" {
		t.Errorf("first path = %q", first.CurrentPath())
	}
	if second.CurrentPath() != "/" {
		t.Errorf("second path = %q, want / (sessions must not share state)", second.CurrentPath())
	}
}

func TestInvalidRouteSurfacesAtBuild(t *testing.T) {
	app := New()
	app.Route("no-slash", func(ctx context.Context, params router.Params, query router.Query) error { return nil })

	if _, err := app.Headless(context.Background(), "/"); err == nil {
		t.Fatal("expected pattern error at engine build")
	}
}

func TestRequireAuthWithoutGuardFailsBuild(t *testing.T) {
	app := New()
	app.Route("/profile", func(ctx context.Context, params router.Params, query router.Query) error { return nil },
		router.RequireAuth())

	if _, err := app.Headless(context.Background(), "/"); err == nil {
		t.Fatal("expected build error when no auth guard is configured")
	}
}
