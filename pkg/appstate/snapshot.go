package appstate

import (
	"encoding/json"

	"github.com/pathline-dev/pathline/internal/errors"
)

// SnapshotVersion is the serialization format version.
// Increment on breaking changes to the snapshot shape.
const SnapshotVersion = 1

// Snapshot is the JSON-serializable bundle of all application stores plus
// the committed route, used to persist a session and hydrate a new one.
type Snapshot struct {
	Version int       `json:"version"`
	Route   string    `json:"route,omitempty"`
	Auth    AuthState `json:"auth"`
	Game    GameState `json:"game"`
	UI      UIState   `json:"ui"`
}

// Take captures the current state of every store.
func Take(route string, auth *AuthStore, game *GameStore, ui *UIStore) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Route:   route,
		Auth:    auth.Get(),
		Game:    game.Get(),
		UI:      ui.Get(),
	}
}

// Encode serializes the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	s.Version = SnapshotVersion
	return json.Marshal(s)
}

// Decode deserializes a snapshot, rejecting unknown format versions.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Newf(errors.CategorySnapshot, "decoding snapshot").Wrap(err)
	}
	if s.Version != SnapshotVersion {
		return nil, errors.Newf(errors.CategorySnapshot, "unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}

// Hydrate replaces every store's state with the snapshot's.
// Replace always notifies, so subscribers observe the hydration.
func (s *Snapshot) Hydrate(auth *AuthStore, game *GameStore, ui *UIStore) {
	auth.Replace(s.Auth)
	game.Replace(s.Game)
	ui.Replace(s.UI)
}
