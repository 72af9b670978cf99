package zarr_test

import (
	"context"
	"io"
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/TuSKan/zarr-gomlx/zarr/gcstore"
	"github.com/stretchr/testify/require"
	_ "gocloud.dev/blob/memblob"
)

func openMemStore(t *testing.T, ctx context.Context) *gcstore.Store {
	t.Helper()
	store, err := gcstore.Open(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func bytesCodecList() []zarr.CodecDescriptor {
	return []zarr.CodecDescriptor{{Name: "bytes", Configuration: []byte(`{"endian":"little"}`)}}
}

func TestDataset_NextBatch(t *testing.T) {
	ctx := context.Background()
	store := openMemStore(t, ctx)

	arr, err := zarr.CreateArray(ctx, store, "ds", []int{10, 2}, []int{5, 2}, zarr.Float32, float32(0), bytesCodecList(), nil)
	require.NoError(t, err)

	data := make([]float32, 20)
	for i := range data {
		data[i] = float32(i)
	}
	require.NoError(t, arr.Set(ctx, nil, zarr.FromFloat32s([]int{10, 2}, data)))

	ds := zarr.NewDataset(arr)

	batch1, err := ds.NextBatch(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2}, batch1.Shape().Dimensions)
	require.Equal(t, [][]float32{{0, 1}, {2, 3}, {4, 5}}, batch1.Value().([][]float32))

	batch2, err := ds.NextBatch(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2}, batch2.Shape().Dimensions)
	require.Equal(t, [][]float32{{6, 7}, {8, 9}, {10, 11}}, batch2.Value().([][]float32))

	batch3, err := ds.NextBatch(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, []int{4, 2}, batch3.Shape().Dimensions)
	require.Equal(t, [][]float32{{12, 13}, {14, 15}, {16, 17}, {18, 19}}, batch3.Value().([][]float32))

	_, err = ds.NextBatch(ctx, 1)
	require.ErrorIs(t, err, io.EOF)
}

func TestDataset_Reset(t *testing.T) {
	ctx := context.Background()
	store := openMemStore(t, ctx)

	arr, err := zarr.CreateArray(ctx, store, "ds", []int{4, 1}, []int{4, 1}, zarr.Int32, int32(0), bytesCodecList(), nil)
	require.NoError(t, err)
	require.NoError(t, arr.Set(ctx, nil, zarr.FromInt32s([]int{4, 1}, []int32{1, 2, 3, 4})))

	ds := zarr.NewDataset(arr)
	_, err = ds.NextBatch(ctx, 4)
	require.NoError(t, err)
	_, err = ds.NextBatch(ctx, 1)
	require.ErrorIs(t, err, io.EOF)

	ds.Reset()
	batch, err := ds.NextBatch(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, []int{4, 1}, batch.Shape().Dimensions)
}
