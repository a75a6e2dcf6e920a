// Package backend opens the storage collaborators selected by a storage URL.
package backend

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopaholics/internal/domain/product"
	"github.com/xenking/shopaholics/internal/storage"
	"github.com/xenking/shopaholics/internal/storage/memory"
	"github.com/xenking/shopaholics/internal/storage/postgres"
	"github.com/xenking/shopaholics/internal/storage/sqlite"
)

// Stores bundles the persistence collaborators of one backend.
type Stores struct {
	// KV holds the cart.
	KV storage.KV
	// Products holds the catalog. For memory and sqlite it is a JSON blob in
	// KV; for postgres it is the products table.
	Products product.Repository
	// Scheme names the backend, e.g. for health check names.
	Scheme string

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks backend connectivity.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases backend resources.
func (s *Stores) Close() {
	s.close()
}

// Open connects to the backend named by rawURL and prepares it for use:
// tables are created and an empty catalog is seeded.
func Open(ctx context.Context, rawURL string) (*Stores, error) {
	b, err := storage.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	zctx.From(ctx).Info("Opening storage",
		zap.String("scheme", b.Scheme),
		zap.String("url", storage.Redacted(rawURL)),
	)

	switch b.Scheme {
	case "memory":
		kv := memory.New()
		return kvStores(ctx, b.Scheme, kv, kv.Ping, func() {})
	case "sqlite":
		kv, err := sqlite.Open(ctx, b.Path)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		return kvStores(ctx, b.Scheme, kv, kv.Ping, func() { _ = kv.Close() })
	case "postgres":
		return openPostgres(ctx, b.DSN)
	default:
		return nil, errors.Errorf("unsupported storage scheme %q", b.Scheme)
	}
}

func kvStores(ctx context.Context, scheme string, kv storage.KV, ping func(context.Context) error, closeFn func()) (*Stores, error) {
	products := product.NewKVRepository(kv)
	if err := products.Load(ctx); err != nil {
		closeFn()
		return nil, errors.Wrap(err, "load catalog")
	}
	return &Stores{
		KV:       kv,
		Products: products,
		Scheme:   scheme,
		ping:     ping,
		close:    closeFn,
	}, nil
}

func openPostgres(ctx context.Context, dsn string) (*Stores, error) {
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	products := postgres.NewProductRepository(pool)
	if err := products.SeedIfEmpty(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "seed catalog")
	}
	kv := postgres.NewKV(pool)
	return &Stores{
		KV:       kv,
		Products: products,
		Scheme:   "postgres",
		ping:     kv.Ping,
		close:    pool.Close,
	}, nil
}
