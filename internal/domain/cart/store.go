package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/shopaholics/internal/domain/product"
	"github.com/xenking/shopaholics/internal/storage"
)

// Store owns the application's single cart. State is restored from the KV
// collaborator on first use and written back after every mutation; a failed
// write leaves the in-memory cart unchanged.
type Store struct {
	kv storage.KV

	mu     sync.Mutex
	loaded bool
	cart   Cart
}

// NewStore creates a Store persisting under storage.CartStoreName.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Load restores the persisted cart. An absent blob yields an empty cart.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	data, err := s.kv.Get(ctx, storage.CartStoreName)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.cart = Cart{}
	case err != nil:
		return errors.Wrap(err, "read cart")
	default:
		var c Cart
		if err := json.Unmarshal(data, &c); err != nil {
			return errors.Wrap(err, "decode cart")
		}
		// Aggregates are never trusted from storage.
		c.recalculate()
		s.cart = c
	}
	s.loaded = true
	return nil
}

// Get returns a copy of the current cart.
func (s *Store) Get(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return Cart{}, err
	}
	return s.cart.Clone(), nil
}

// AddItem adds one unit of p.
func (s *Store) AddItem(ctx context.Context, p product.Product) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) { c.AddItem(p) })
}

// RemoveItem removes the item with the given product id.
func (s *Store) RemoveItem(ctx context.Context, id string) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) { c.RemoveItem(id) })
}

// UpdateQuantity sets the quantity of an item, removing it when quantity <= 0.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) { c.UpdateQuantity(id, quantity) })
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) { c.Clear() })
}

func (s *Store) mutate(ctx context.Context, op func(c *Cart)) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return Cart{}, err
	}

	next := s.cart.Clone()
	op(&next)

	data, err := json.Marshal(next)
	if err != nil {
		return Cart{}, errors.Wrap(err, "encode cart")
	}
	if err := s.kv.Put(ctx, storage.CartStoreName, data); err != nil {
		return Cart{}, errors.Wrap(err, "write cart")
	}

	s.cart = next
	return next.Clone(), nil
}
