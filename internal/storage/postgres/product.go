package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopaholics/internal/domain/product"
)

const (
	productColumns = `id, title, slug, price, category, image, description, is_dupe_candidate, rating, reviews, specs`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY position`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1 ORDER BY position LIMIT 1`

	countProductsSQL = `SELECT count(*) FROM products`

	deleteProductsSQL = `DELETE FROM products`
)

var productTable = pgx.Identifier{"products"}

var copyColumns = []string{
	"id", "title", "slug", "price", "category", "image", "description",
	"is_dupe_candidate", "rating", "reviews", "specs",
}

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by the products
// table. Insertion order is kept by the position column.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// SeedIfEmpty loads the seed catalog into an empty table.
func (r *ProductRepository) SeedIfEmpty(ctx context.Context) error {
	var n int64
	if err := r.pool.QueryRow(ctx, countProductsSQL).Scan(&n); err != nil {
		return errors.Wrap(err, "count products")
	}
	if n > 0 {
		return nil
	}
	return r.Append(ctx, product.Seed())
}

// List returns the catalog in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns the first product with the given id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Append bulk-inserts products after the existing rows.
func (r *ProductRepository) Append(ctx context.Context, products []product.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return copyProducts(ctx, tx, products)
	})
}

// Reset replaces the catalog with the seed data in one transaction.
func (r *ProductRepository) Reset(ctx context.Context) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteProductsSQL); err != nil {
			return errors.Wrap(err, "delete products")
		}
		return copyProducts(ctx, tx, product.Seed())
	})
}

func copyProducts(ctx context.Context, tx pgx.Tx, products []product.Product) error {
	rows := make([][]any, len(products))
	for i, p := range products {
		specs, err := encodeSpecs(p.Specs)
		if err != nil {
			return errors.Wrapf(err, "encode specs of %q", p.ID)
		}
		rows[i] = []any{
			p.ID, p.Title, p.Slug, p.Price, p.Category, p.Image, p.Description,
			p.IsDupeCandidate, p.Rating, int32(p.Reviews), specs,
		}
	}
	if _, err := tx.CopyFrom(ctx, productTable, copyColumns, pgx.CopyFromRows(rows)); err != nil {
		return errors.Wrap(err, "copy products")
	}
	return nil
}

func encodeSpecs(specs product.Specs) (string, error) {
	if specs == nil {
		specs = product.Specs{}
	}
	data, err := json.Marshal(specs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p       product.Product
		reviews int32
		specs   []byte
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Price, &p.Category, &p.Image, &p.Description,
		&p.IsDupeCandidate, &p.Rating, &reviews, &specs,
	); err != nil {
		return p, err
	}
	p.Reviews = int(reviews)
	if err := json.Unmarshal(specs, &p.Specs); err != nil {
		return p, errors.Wrap(err, "decode specs")
	}
	return p, nil
}
