package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopaholics/internal/storage"
)

func TestKV(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "shop.db")

	kv, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Ping(ctx))

	_, err = kv.Get(ctx, storage.CartStoreName)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Put(ctx, storage.CartStoreName, []byte("first")))
	require.NoError(t, kv.Put(ctx, storage.CartStoreName, []byte("second")))
	require.NoError(t, kv.Put(ctx, storage.CatalogStoreName, []byte("catalog")))
	require.NoError(t, kv.Close())

	// Values survive reopening the file.
	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, storage.CartStoreName)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	got, err = reopened.Get(ctx, storage.CatalogStoreName)
	require.NoError(t, err)
	assert.Equal(t, "catalog", string(got))
}
