package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore persists snapshots through any database/sql compatible driver.
// Requires a table with schema:
//
//	CREATE TABLE pathline_snapshots (
//	    id VARCHAR(64) PRIMARY KEY,
//	    data BYTEA NOT NULL,
//	    expires_at TIMESTAMP WITH TIME ZONE,
//	    updated_at TIMESTAMP WITH TIME ZONE NOT NULL
//	);
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
}

// SQLDialect selects placeholder syntax for query generation.
type SQLDialect int

const (
	// DialectPostgreSQL uses $1, $2 placeholders.
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses ? placeholders.
	DialectMySQL
	// DialectSQLite uses ? placeholders.
	DialectSQLite
)

// SQLOption configures a SQLStore.
type SQLOption func(*SQLStore)

// WithTableName sets the snapshot table name. Default: "pathline_snapshots".
func WithTableName(name string) SQLOption {
	return func(s *SQLStore) {
		s.tableName = name
	}
}

// WithDialect sets the SQL dialect. Default: DialectPostgreSQL.
func WithDialect(dialect SQLDialect) SQLOption {
	return func(s *SQLStore) {
		s.dialect = dialect
	}
}

// NewSQLStore creates a SQL-backed snapshot store over an open connection.
// The store does not own the connection; Close does not close it.
func NewSQLStore(db *sql.DB, opts ...SQLOption) *SQLStore {
	s := &SQLStore{
		db:        db,
		tableName: "pathline_snapshots",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// placeholder renders the n-th query placeholder for the dialect.
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Save upserts the snapshot row.
func (s *SQLStore) Save(ctx context.Context, sessionID string, data []byte, expiresAt time.Time) error {
	var expires any
	if !expiresAt.IsZero() {
		expires = expiresAt
	}

	var query string
	switch s.dialect {
	case DialectMySQL:
		query = fmt.Sprintf(
			`INSERT INTO %s (id, data, expires_at, updated_at) VALUES (?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE data = VALUES(data), expires_at = VALUES(expires_at), updated_at = VALUES(updated_at)`,
			s.tableName)
	default:
		// PostgreSQL and SQLite share ON CONFLICT syntax.
		query = fmt.Sprintf(
			`INSERT INTO %s (id, data, expires_at, updated_at) VALUES (%s, %s, %s, %s)
			 ON CONFLICT (id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
			s.tableName, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4))
	}

	_, err := s.db.ExecContext(ctx, query, sessionID, data, expires, time.Now())
	return err
}

// Load reads the snapshot row, returning (nil, nil) when missing or expired.
func (s *SQLStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	query := fmt.Sprintf(
		`SELECT data, expires_at FROM %s WHERE id = %s`,
		s.tableName, s.placeholder(1))

	var data []byte
	var expiresAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&data, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid && time.Now().After(expiresAt.Time) {
		return nil, nil
	}
	return data, nil
}

// Delete removes the snapshot row if present.
func (s *SQLStore) Delete(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, s.tableName, s.placeholder(1))
	_, err := s.db.ExecContext(ctx, query, sessionID)
	return err
}

// Close is a no-op; the caller owns the database connection.
func (s *SQLStore) Close() error {
	return nil
}
