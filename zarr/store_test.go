package zarr_test

import (
	"context"
	"errors"
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareStore implements only the required zarr.Store methods, with
// neither partial-value extension, to exercise the ErrUnimplemented
// fallback of spec.md §4.6.
type bareStore struct {
	data map[string][]byte
}

func newBareStore() *bareStore { return &bareStore{data: map[string][]byte{}} }

func (b *bareStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := b.data[key]
	if !ok {
		return nil, zarr.ErrNotFound
	}
	return v, nil
}
func (b *bareStore) Set(ctx context.Context, key string, value []byte) error {
	b.data[key] = value
	return nil
}
func (b *bareStore) Erase(ctx context.Context, key string) error { delete(b.data, key); return nil }
func (b *bareStore) EraseValues(ctx context.Context, keys []string) error {
	for _, k := range keys {
		delete(b.data, k)
	}
	return nil
}
func (b *bareStore) ErasePrefix(ctx context.Context, prefix string) error { return nil }
func (b *bareStore) List(ctx context.Context) ([]string, error)          { return nil, nil }
func (b *bareStore) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}
func (b *bareStore) ListDir(ctx context.Context, prefix string) ([]string, error) { return nil, nil }

func TestGetSetPartialValues_FallBackToUnimplemented(t *testing.T) {
	ctx := context.Background()
	s := newBareStore()

	_, err := zarr.GetPartialValues(ctx, s, nil)
	assert.True(t, errors.Is(err, zarr.ErrUnimplemented))

	err = zarr.SetPartialValues(ctx, s, nil)
	assert.True(t, errors.Is(err, zarr.ErrUnimplemented))
}

func TestGetPartialValues_ViaGcstore(t *testing.T) {
	ctx := context.Background()
	store := openMemStore(t, ctx)
	require.NoError(t, store.Set(ctx, "k", []byte("0123456789")))

	vals, err := zarr.GetPartialValues(ctx, store, []zarr.KeyRange{{Key: "k", Lo: 2, Hi: 5}})
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, []byte("234"), vals[0])
}
