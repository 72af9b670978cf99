package gcstore_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/TuSKan/zarr-gomlx/zarr/gcstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "gocloud.dev/blob/memblob"
)

func openStore(t *testing.T) (*gcstore.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s, err := gcstore.Open(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s, ctx
}

func TestStore_GetSet(t *testing.T) {
	s, ctx := openStore(t)

	_, err := s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, zarr.ErrNotFound))

	require.NoError(t, s.Set(ctx, "a/b", []byte("hello")))
	got, err := s.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestStore_EraseAndList(t *testing.T) {
	s, ctx := openStore(t)

	require.NoError(t, s.Set(ctx, "g/a/zarr.json", []byte("1")))
	require.NoError(t, s.Set(ctx, "g/b/zarr.json", []byte("2")))
	require.NoError(t, s.Set(ctx, "g/zarr.json", []byte("3")))

	keys, err := s.ListPrefix(ctx, "g/")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"g/a/zarr.json", "g/b/zarr.json", "g/zarr.json"}, keys)

	children, err := s.ListDir(ctx, "g")
	require.NoError(t, err)
	sort.Strings(children)
	assert.Equal(t, []string{"a", "b", "zarr.json"}, children)

	require.NoError(t, s.Erase(ctx, "g/zarr.json"))
	_, err = s.Get(ctx, "g/zarr.json")
	assert.True(t, errors.Is(err, zarr.ErrNotFound))

	require.NoError(t, s.ErasePrefix(ctx, "g/"))
	keys, err = s.ListPrefix(ctx, "g/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_EraseValues(t *testing.T) {
	s, ctx := openStore(t)
	require.NoError(t, s.Set(ctx, "x", []byte("1")))
	require.NoError(t, s.Set(ctx, "y", []byte("2")))

	require.NoError(t, s.EraseValues(ctx, []string{"x", "y"}))
	_, err := s.Get(ctx, "x")
	assert.True(t, errors.Is(err, zarr.ErrNotFound))
}

func TestStore_SatisfiesZarrStore(t *testing.T) {
	var _ zarr.Store = (*gcstore.Store)(nil)
}
