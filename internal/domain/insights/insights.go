// Package insights assembles the advice shown next to a product: an impulse
// nudge and, for dupe candidates, a cheaper alternative with its savings.
package insights

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shopaholics/internal/domain/cart"
	"github.com/xenking/shopaholics/internal/domain/product"
)

// Advisor produces the advice texts. Implementations never fail.
type Advisor interface {
	ImpulseAdvice(ctx context.Context, p product.Product, cartTotal decimal.Decimal) string
	DupeExplanation(ctx context.Context, original, dupe product.Product) string
}

// CartReader exposes the current cart.
type CartReader interface {
	Get(ctx context.Context) (cart.Cart, error)
}

// Dupe is a cheaper alternative to the viewed product.
type Dupe struct {
	Product     product.Product `json:"product"`
	Explanation string          `json:"explanation"`
	Savings     decimal.Decimal `json:"savings"`
}

// Insights is everything shown alongside a product.
type Insights struct {
	Product product.Product `json:"product"`
	Advice  string          `json:"advice"`
	Dupe    *Dupe           `json:"dupe,omitempty"`
}

// Service builds Insights.
type Service struct {
	products product.Repository
	cart     CartReader
	advisor  Advisor
}

// NewService creates an insights Service.
func NewService(products product.Repository, cart CartReader, advisor Advisor) *Service {
	return &Service{
		products: products,
		cart:     cart,
		advisor:  advisor,
	}
}

// ForProduct returns the insights for the product with the given id. The
// advice and the dupe explanation are requested concurrently.
func (s *Service) ForProduct(ctx context.Context, id string) (*Insights, error) {
	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	var (
		p     product.Product
		found bool
	)
	for _, candidate := range catalog {
		if candidate.ID == id {
			p, found = candidate, true
			break
		}
	}
	if !found {
		return nil, product.ErrNotFound
	}

	c, err := s.cart.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	out := &Insights{Product: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Advice = s.advisor.ImpulseAdvice(gctx, p, c.Total)
		return nil
	})
	if dupe, ok := product.FindDupe(catalog, p); ok {
		out.Dupe = &Dupe{
			Product: dupe,
			Savings: p.Price.Sub(dupe.Price),
		}
		g.Go(func() error {
			out.Dupe.Explanation = s.advisor.DupeExplanation(gctx, p, dupe)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
