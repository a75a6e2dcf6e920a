// Package storage defines the key-value persistence collaborator that holds
// the catalog and cart state, and opens a concrete backend by URL.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// Fixed store names under which application state is persisted.
const (
	CartStoreName    = "shopaholics-cart"
	CatalogStoreName = "shopaholics-products-storage"
)

// ErrNotFound is returned by KV.Get when nothing is stored under a name.
var ErrNotFound = errors.New("storage: not found")

// KV stores opaque blobs under fixed names. Put replaces the previous value.
type KV interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, value []byte) error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
