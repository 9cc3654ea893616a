// Package kvstore implements the namespaced JSON key-value store every
// other component persists through. Values are serialized to JSON on write
// and re-decoded on every read; the store is the only source of truth.
//
// Failure containment: reads degrade to the caller's default (Get returns
// false and leaves dest untouched), writes report success as a boolean.
// Storage or codec failures are logged here and never propagate as errors.
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pressly/goose/v3"

	"github.com/udx-labs/userdesk/internal/dbx"
	"github.com/udx-labs/userdesk/internal/kvstore/migrations"
	"github.com/udx-labs/userdesk/internal/logging"

	_ "modernc.org/sqlite"
)

// Owned keys. Every key is stored under the namespace prefix so the table
// can host unrelated data without collisions.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeySettings    = "settings"
	KeySessionFlag = "sessionFlag"
	KeyAuditLog    = "auditLog"
	KeyBackup      = "backup"
	KeyMetrics     = "metrics"
)

// DefaultPrefix is the namespace used when the caller does not override it.
const DefaultPrefix = "userdesk_"

// Store is a namespaced view over the kv_entries table. Queries run
// through q, which is the plain handle outside transactions and a *sql.Tx
// inside WithTx.
type Store struct {
	db     *sql.DB
	q      dbx.DBTX
	prefix string
	log    logging.Logger
}

// New wraps an already-migrated database handle. Used by tests and by
// components that share one handle.
func New(db *sql.DB, prefix string, log logging.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{db: db, q: db, prefix: prefix, log: log}
}

// Open opens (or creates) the sqlite database at dsn, applies migrations,
// and seeds default data if the user collection is absent.
func Open(ctx context.Context, dsn, prefix string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := New(db, prefix, log)
	s.seed(ctx)
	return s, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle so collaborators constructed separately
// can share it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Prefix returns the namespace prefix.
func (s *Store) Prefix() string {
	return s.prefix
}

// Get decodes the value stored under key into dest. It returns false, with
// dest untouched, when the key is missing or the stored text does not
// decode; callers pre-set dest to their default.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	raw, ok := s.GetRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn(ctx, "undecodable value, using default", "key", key, "error", err)
		return false
	}
	return true
}

// GetRaw returns the stored JSON text for key without decoding it.
func (s *Store) GetRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	var value []byte
	err := s.q.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE key = ?`, s.prefix+key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.log.Warn(ctx, "storage read failed, using default", "key", key, "error", err)
		return nil, false
	}
	return value, true
}

// Set serializes value to JSON and stores it under key, returning false if
// the codec or the medium rejects the write.
func (s *Store) Set(ctx context.Context, key string, value any) bool {
	b, err := json.Marshal(value)
	if err != nil {
		s.log.Warn(ctx, "value not serializable", "key", key, "error", err)
		return false
	}
	return s.SetRaw(ctx, key, b)
}

// SetRaw stores pre-encoded JSON under key.
func (s *Store) SetRaw(ctx context.Context, key string, raw json.RawMessage) bool {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.prefix+key, []byte(raw))
	if err != nil {
		s.log.Warn(ctx, "storage write failed", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes key. Missing keys are not an error.
func (s *Store) Remove(ctx context.Context, key string) {
	_, err := s.q.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, s.prefix+key)
	if err != nil {
		s.log.Warn(ctx, "storage delete failed", "key", key, "error", err)
	}
}

// Has reports whether key currently holds a value.
func (s *Store) Has(ctx context.Context, key string) bool {
	var one int
	err := s.q.QueryRowContext(ctx,
		`SELECT 1 FROM kv_entries WHERE key = ?`, s.prefix+key).Scan(&one)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		s.log.Warn(ctx, "storage read failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key in this namespace. Rows outside the prefix are
// left alone; this is not a raw table wipe.
func (s *Store) Clear(ctx context.Context) {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE substr(key, 1, ?) = ?`, len(s.prefix), s.prefix)
	if err != nil {
		s.log.Warn(ctx, "storage clear failed", "error", err)
	}
}

// Keys lists the namespace's keys with the prefix stripped, in key order.
func (s *Store) Keys(ctx context.Context) []string {
	rows, err := s.q.QueryContext(ctx, `
		SELECT key FROM kv_entries WHERE substr(key, 1, ?) = ? ORDER BY key
	`, len(s.prefix), s.prefix)
	if err != nil {
		s.log.Warn(ctx, "storage key listing failed", "error", err)
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			s.log.Warn(ctx, "storage key scan failed", "error", err)
			return keys
		}
		keys = append(keys, k[len(s.prefix):])
	}
	if err := rows.Err(); err != nil {
		s.log.Warn(ctx, "storage key iteration failed", "error", err)
	}
	return keys
}

// WithTx runs fn against a transactional view of the same namespace,
// committing on success and rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		view := &Store{db: s.db, q: q, prefix: s.prefix, log: s.log}
		return fn(ctx, view)
	})
}
