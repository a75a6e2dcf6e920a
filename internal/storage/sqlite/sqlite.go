// Package sqlite provides a single-file storage.KV.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"github.com/xenking/shopaholics/internal/storage"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS kv_store (
		name       TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	getValueSQL = `SELECT value FROM kv_store WHERE name = ?`

	putValueSQL = `INSERT INTO kv_store (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

var (
	_ storage.KV     = (*KV)(nil)
	_ storage.Pinger = (*KV)(nil)
)

// KV stores values in a SQLite database file.
type KV struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*KV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create table")
	}
	return &KV{db: db}, nil
}

// Get returns the value stored under name.
func (k *KV) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	if err := k.db.QueryRowContext(ctx, getValueSQL, name).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %q", name)
	}
	return value, nil
}

// Put upserts value under name.
func (k *KV) Put(ctx context.Context, name string, value []byte) error {
	if _, err := k.db.ExecContext(ctx, putValueSQL, name, value); err != nil {
		return errors.Wrapf(err, "put %q", name)
	}
	return nil
}

// Ping checks that the database is reachable.
func (k *KV) Ping(ctx context.Context) error {
	return k.db.PingContext(ctx)
}

// Close closes the database.
func (k *KV) Close() error {
	return k.db.Close()
}
