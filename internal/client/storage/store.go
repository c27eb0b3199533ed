// Package storage persists small pieces of client state (session token,
// cached profile) across runs. Values are JSON-encoded into a single
// key-value table under a namespace prefix, so several tools can share one
// state file without stepping on each other's keys.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/open436/forumctl/internal/dbx"
	"github.com/open436/forumctl/internal/logging"
)

// Namespace is the default key prefix for this client.
const Namespace = "open436_"

// Well-known keys used by the session layer and the HTTP client. The HTTP
// client only ever reads KeyToken; writes stay with the session store.
const (
	KeyToken     = "token"
	KeyUserInfo  = "user_info"
	KeyExpiresIn = "expires_in"
)

// Open opens (or creates) the state database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}

	return db, nil
}

// Store is a namespaced JSON key-value store.
//
// Writes swallow serialization and storage errors after logging them: a full
// disk or read-only state file must not crash the caller, it only loses the
// cached value. Reads fall back to the caller's default on any miss or
// decode failure.
type Store struct {
	db  dbx.DBTX
	ns  string
	log logging.Logger
}

func New(db dbx.DBTX, ns string, log logging.Logger) *Store {
	return &Store{db: db, ns: ns, log: log}
}

// Bind returns a Store with the same namespace and logger that runs its
// statements on tx. Used with dbx.WithTx to write several keys atomically.
func (s *Store) Bind(tx dbx.DBTX) *Store {
	return &Store{db: tx, ns: s.ns, log: s.log}
}

// Set serializes value and stores it under the namespaced key.
// Errors are logged and swallowed.
func (s *Store) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error(ctx, "storage: failed to serialize value", "key", key, "error", err)
		return
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, s.ns+key, string(data))
	if err != nil {
		s.log.Error(ctx, "storage: failed to store value", "key", key, "error", err)
	}
}

// Get decodes the value stored under the namespaced key into out and reports
// whether it succeeded. On a missing key or decode failure the caller keeps
// whatever default out already holds.
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.ns+key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		s.log.Error(ctx, "storage: failed to read value", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Error(ctx, "storage: failed to decode value", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes the namespaced entry. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.ns+key)
	if err != nil {
		s.log.Error(ctx, "storage: failed to remove value", "key", key, "error", err)
	}
}

// Has reports whether the namespaced key is present.
func (s *Store) Has(ctx context.Context, key string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM kv WHERE key = ?`, s.ns+key).Scan(&one)
	return err == nil
}

// Clear wipes the entire kv table, including entries written under other
// namespaces sharing this file. Callers must be aware of that before
// reaching for it; Remove is the namespace-safe option.
func (s *Store) Clear(ctx context.Context) {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv`)
	if err != nil {
		s.log.Error(ctx, "storage: failed to clear store", "error", err)
	}
}
