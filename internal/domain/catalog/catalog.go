// Package catalog implements the catalog operations exposed to shoppers and
// administrators: browsing, CSV import and export, and reset to seed data.
package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/product"
)

// ImportSummary reports the outcome of a successful import.
type ImportSummary struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`

	// Duplicates counts valid rows dropped by WithSkipExisting.
	Duplicates int `json:"duplicates,omitempty"`
}

type importOptions struct {
	skipExisting bool
}

// ImportOption configures Import.
type ImportOption func(*importOptions)

// WithSkipExisting drops rows whose id is already in the catalog. By default
// every valid row is appended, so re-importing an export duplicates it.
func WithSkipExisting() ImportOption {
	return func(o *importOptions) { o.skipExisting = true }
}

// Service is the catalog use-case layer over a product.Repository.
type Service struct {
	products product.Repository
	importer *csvio.Importer
	rows     metric.Int64Counter
	now      func() time.Time
}

// NewService creates a catalog Service. Import row counts are recorded on
// meter.
func NewService(products product.Repository, importer *csvio.Importer, meter metric.Meter) (*Service, error) {
	rows, err := meter.Int64Counter("catalog.import.rows",
		metric.WithDescription("CSV rows processed by catalog imports"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create import counter")
	}
	return &Service{
		products: products,
		importer: importer,
		rows:     rows,
		now:      time.Now,
	}, nil
}

// List returns the products in category; "" or product.AllCategories
// returns the whole catalog.
func (s *Service) List(ctx context.Context, category string) ([]product.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return product.FilterByCategory(products, category), nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id string) (*product.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Import parses CSV from r and appends the valid rows to the catalog.
// Header errors and unreadable input abort without touching the catalog, as
// does a file in which every row was rejected.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (*ImportSummary, error) {
	var o importOptions
	for _, opt := range opts {
		opt(&o)
	}
	lg := zctx.From(ctx)

	res, err := s.importer.Read(r)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range res.Errors {
		lg.Warn("Skipping row",
			zap.Int("row", rowErr.Line),
			zap.String("reason", rowErr.Reason),
		)
	}
	s.rows.Add(ctx, int64(res.Imported()), metric.WithAttributes(attribute.String("result", "imported")))
	s.rows.Add(ctx, int64(res.Skipped), metric.WithAttributes(attribute.String("result", "skipped")))

	if res.Imported() == 0 {
		return nil, csvio.ErrNoValidProducts
	}

	products, duplicates := res.Products, 0
	if o.skipExisting {
		current, err := s.products.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "list products")
		}
		products, duplicates = dropExisting(current, products)
	}
	if len(products) > 0 {
		if err := s.products.Append(ctx, products); err != nil {
			return nil, errors.Wrap(err, "append products")
		}
	}

	lg.Info("Catalog import complete",
		zap.Int("imported", len(products)),
		zap.Int("skipped", res.Skipped),
		zap.Int("duplicates", duplicates),
	)
	msg := fmt.Sprintf("Import complete! Success: %d, Skipped/Errors: %d", len(products), res.Skipped)
	if duplicates > 0 {
		msg += fmt.Sprintf(", Already in catalog: %d", duplicates)
	}
	return &ImportSummary{
		Imported:   len(products),
		Skipped:    res.Skipped,
		Duplicates: duplicates,
		Message:    msg,
	}, nil
}

// Export writes the whole catalog as CSV to w and returns the suggested
// download name.
func (s *Service) Export(ctx context.Context, w io.Writer) (string, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list products")
	}
	if err := csvio.Write(w, csvio.ProductRecords(products)); err != nil {
		return "", err
	}
	return csvio.Filename("products", s.now()), nil
}

// Reset restores the seed catalog.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.products.Reset(ctx); err != nil {
		return errors.Wrap(err, "reset catalog")
	}
	zctx.From(ctx).Info("Catalog reset to seed data")
	return nil
}
