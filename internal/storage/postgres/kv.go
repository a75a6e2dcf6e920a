package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopaholics/internal/storage"
)

const (
	getValueSQL = `SELECT value FROM kv_store WHERE name = $1`

	putValueSQL = `INSERT INTO kv_store (name, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

var (
	_ storage.KV     = (*KV)(nil)
	_ storage.Pinger = (*KV)(nil)
)

// KV implements storage.KV over the kv_store table.
type KV struct {
	pool *pgxpool.Pool
}

// NewKV returns a KV that uses the given pool.
func NewKV(pool *pgxpool.Pool) *KV {
	return &KV{pool: pool}
}

// Get returns the value stored under name.
func (k *KV) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	if err := k.pool.QueryRow(ctx, getValueSQL, name).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %q", name)
	}
	return value, nil
}

// Put upserts value under name.
func (k *KV) Put(ctx context.Context, name string, value []byte) error {
	if _, err := k.pool.Exec(ctx, putValueSQL, name, value); err != nil {
		return errors.Wrapf(err, "put %q", name)
	}
	return nil
}

// Ping checks database connectivity.
func (k *KV) Ping(ctx context.Context) error {
	return k.pool.Ping(ctx)
}
