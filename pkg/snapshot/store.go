// Package snapshot persists serialized application-state snapshots.
//
// A snapshot is the encoded bundle produced by pkg/appstate: the committed
// route plus every store's state. Saving happens on logout, on graceful
// shutdown, or periodically; loading hydrates a fresh session's stores via
// Replace. Backends: in-memory (tests), local disk, any database/sql
// driver, and S3.
package snapshot

import (
	"context"
	"time"
)

// Store is the snapshot persistence backend contract.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a snapshot. An existing snapshot for the same
	// session ID is overwritten. The expiry tells the backend when the
	// snapshot may be discarded.
	Save(ctx context.Context, sessionID string, data []byte, expiresAt time.Time) error

	// Load retrieves a snapshot by session ID.
	// Returns (nil, nil) when the snapshot doesn't exist or has expired.
	Load(ctx context.Context, sessionID string) ([]byte, error)

	// Delete removes a snapshot. Deleting a missing snapshot is not an
	// error.
	Delete(ctx context.Context, sessionID string) error

	// Close releases backend resources.
	Close() error
}
