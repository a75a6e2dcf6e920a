package product

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/shopaholics/internal/storage"
)

var _ Repository = (*KVRepository)(nil)

// catalogState is the persisted shape of the catalog blob.
type catalogState struct {
	Products []Product `json:"products"`
}

// KVRepository keeps the whole catalog as a single JSON blob in a
// storage.KV under storage.CatalogStoreName. The catalog is loaded once and
// written back after every mutation; an absent blob starts from Seed.
type KVRepository struct {
	kv storage.KV

	mu       sync.RWMutex
	loaded   bool
	products []Product
}

// NewKVRepository returns a KVRepository backed by kv.
func NewKVRepository(kv storage.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

// Load restores the catalog from storage. It is called implicitly by every
// other method, so calling it at startup only surfaces errors early.
func (r *KVRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

func (r *KVRepository) loadLocked(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	data, err := r.kv.Get(ctx, storage.CatalogStoreName)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r.products = Seed()
	case err != nil:
		return errors.Wrap(err, "read catalog")
	default:
		var state catalogState
		if err := json.Unmarshal(data, &state); err != nil {
			return errors.Wrap(err, "decode catalog")
		}
		r.products = state.Products
	}
	r.loaded = true
	return nil
}

func (r *KVRepository) snapshot(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.products, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loadLocked(ctx); err != nil {
		return nil, err
	}
	return r.products, nil
}

// List returns the catalog in insertion order.
func (r *KVRepository) List(ctx context.Context) ([]Product, error) {
	products, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(products), nil
}

// GetByID returns the first product with the given id.
func (r *KVRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	products, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Append adds products to the end of the catalog. The in-memory catalog
// only changes once the new state has been persisted.
func (r *KVRepository) Append(ctx context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loadLocked(ctx); err != nil {
		return err
	}

	next := make([]Product, 0, len(r.products)+len(products))
	next = append(next, r.products...)
	next = append(next, products...)
	return r.replaceLocked(ctx, next)
}

// Reset replaces the catalog with the seed data.
func (r *KVRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceLocked(ctx, Seed())
}

func (r *KVRepository) replaceLocked(ctx context.Context, products []Product) error {
	data, err := json.Marshal(catalogState{Products: products})
	if err != nil {
		return errors.Wrap(err, "encode catalog")
	}
	if err := r.kv.Put(ctx, storage.CatalogStoreName, data); err != nil {
		return errors.Wrap(err, "write catalog")
	}
	r.products = products
	r.loaded = true
	return nil
}
