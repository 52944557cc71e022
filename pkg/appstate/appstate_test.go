package appstate

import (
	"testing"
	"time"
)

func TestAuthStoreLoginLogout(t *testing.T) {
	auth := NewAuthStore()

	if auth.Authenticated() {
		t.Error("fresh store should be logged out")
	}

	auth.Login("alice", false, time.Now().Add(time.Hour))
	if !auth.Authenticated() {
		t.Error("Login should authenticate")
	}
	if auth.TokenExpired() {
		t.Error("future expiry should not be expired")
	}
	if auth.IsAdmin() {
		t.Error("alice is not an admin")
	}

	auth.Logout()
	if auth.Authenticated() {
		t.Error("Logout should reset the session")
	}
}

func TestAuthStoreTokenExpiry(t *testing.T) {
	auth := NewAuthStore()

	auth.Login("alice", false, time.Now().Add(-time.Minute))
	if !auth.TokenExpired() {
		t.Error("past expiry should be expired")
	}

	// A zero expiry never expires.
	auth.Login("bob", false, time.Time{})
	if auth.TokenExpired() {
		t.Error("zero expiry should never expire")
	}
}

func TestGameStoreLifecycle(t *testing.T) {
	game := NewGameStore()

	if game.ActiveGame() {
		t.Error("idle store should have no active game")
	}

	game.Join("g-42", "bob")
	if !game.ActiveGame() {
		t.Error("joined game should be active")
	}

	game.Start()
	if got := game.Get().Status; got != GameRunning {
		t.Errorf("Status = %q, want running", got)
	}

	game.Finish()
	if game.ActiveGame() {
		t.Error("finished game should not be active")
	}
	if got := game.Get().GameID; got != "g-42" {
		t.Errorf("GameID = %q, kept for results", got)
	}

	game.Leave()
	if got := game.Get().Status; got != GameIdle {
		t.Errorf("Status = %q, want idle", got)
	}
}

func TestUIStore(t *testing.T) {
	ui := NewUIStore()

	if got := ui.Get().Theme; got != "dark" {
		t.Errorf("default theme = %q", got)
	}

	ui.SetTheme("light")
	ui.ToggleSidebar()
	st := ui.Get()
	if st.Theme != "light" || !st.SidebarOpen {
		t.Errorf("state = %+v", st)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	auth := NewAuthStore()
	game := NewGameStore()
	ui := NewUIStore()
	auth.Login("alice", true, time.Time{})
	game.Join("g-1", "bob")
	ui.SetTheme("light")

	data, err := Take("/game/g-1", auth, game, ui).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	snap, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Route != "/game/g-1" {
		t.Errorf("Route = %q", snap.Route)
	}

	// Hydrate fresh stores from the snapshot.
	auth2, game2, ui2 := NewAuthStore(), NewGameStore(), NewUIStore()
	snap.Hydrate(auth2, game2, ui2)

	if !auth2.Authenticated() || !auth2.IsAdmin() {
		t.Error("auth state not hydrated")
	}
	if !game2.ActiveGame() {
		t.Error("game state not hydrated")
	}
	if ui2.Get().Theme != "light" {
		t.Error("ui state not hydrated")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"version":99}`)); err == nil {
		t.Error("unknown snapshot version should be rejected")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("malformed snapshot should be rejected")
	}
}
