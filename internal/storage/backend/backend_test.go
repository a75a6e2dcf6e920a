package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopaholics/internal/domain/product"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "memory://")
	require.NoError(t, err)
	t.Cleanup(s.Close)

	assert.Equal(t, "memory", s.Scheme)
	require.NoError(t, s.Ping(ctx))

	products, err := s.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(product.Seed()))
}

func TestOpen_SQLitePersistsCatalog(t *testing.T) {
	ctx := context.Background()
	url := "sqlite://" + filepath.Join(t.TempDir(), "shop.db")

	s, err := Open(ctx, url)
	require.NoError(t, err)
	require.NoError(t, s.Products.Append(ctx, []product.Product{{ID: "x1", Title: "Lamp"}}))
	s.Close()

	s, err = Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	p, err := s.Products.GetByID(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Title)
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(context.Background(), "mongodb://localhost")
	require.Error(t, err)
}
