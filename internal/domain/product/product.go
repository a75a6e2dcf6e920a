package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// AllCategories selects the whole catalog in FilterByCategory.
const AllCategories = "all"

// Product represents a catalog item available for purchase.
type Product struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Image           string          `json:"image"`
	Description     string          `json:"description"`
	IsDupeCandidate bool            `json:"isDupeCandidate"`
	Rating          decimal.Decimal `json:"rating"`
	Reviews         int             `json:"reviews"`
	Specs           Specs           `json:"specs,omitempty"`
}

// Spec is a single named product attribute, e.g. "Battery" -> "20h".
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Specs is an ordered string to string mapping.
type Specs []Spec

// Get returns the value stored under key.
func (s Specs) Get(key string) (string, bool) {
	for _, spec := range s {
		if spec.Key == key {
			return spec.Value, true
		}
	}
	return "", false
}

// Repository defines the operations on the persisted product catalog.
// Products are never mutated in place: the catalog only grows by Append
// or is replaced wholesale by Reset.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Append(ctx context.Context, products []Product) error
	Reset(ctx context.Context) error
}

// FilterByCategory returns the products of the given category. An empty
// category or AllCategories returns the input unchanged.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" || category == AllCategories {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
