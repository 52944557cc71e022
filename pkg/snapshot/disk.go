package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiskStore persists snapshots as files on the local filesystem.
// Each snapshot is a small JSON envelope carrying the payload and expiry.
type DiskStore struct {
	dir string

	mu     sync.Mutex
	closed bool
}

type diskEnvelope struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// NewDiskStore creates a disk store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// path derives a filesystem-safe filename from the session ID.
func (s *DiskStore) path(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16])+".snapshot.json")
}

// Save writes the snapshot atomically (write to temp file, then rename).
func (s *DiskStore) Save(_ context.Context, sessionID string, data []byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	envelope, err := json.Marshal(diskEnvelope{
		Data:      data,
		ExpiresAt: expiresAt,
		SavedAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	target := s.path(sessionID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, envelope, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Load reads the snapshot, returning (nil, nil) when missing or expired.
// Expired snapshot files are removed on read.
func (s *DiskStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	target := s.path(sessionID)
	raw, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var envelope diskEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if !envelope.ExpiresAt.IsZero() && time.Now().After(envelope.ExpiresAt) {
		os.Remove(target)
		return nil, nil
	}
	return envelope.Data, nil
}

// Delete removes the snapshot file if present.
func (s *DiskStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	err := os.Remove(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close marks the store closed. Snapshot files are left on disk.
func (s *DiskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
