package codecs_test

import (
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/TuSKan/zarr-gomlx/zarr/codecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipCodec_RoundTrip(t *testing.T) {
	c := codecs.NewGzip()
	assert.Equal(t, "gzip", c.Name())

	data := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
	encoded, err := c.EncodeBytesToBytes(zarr.Uint8, []byte(`{"level":1}`), data)
	require.NoError(t, err)
	assert.NotEqual(t, data, encoded)

	decoded, err := c.DecodeBytesToBytes(zarr.Uint8, nil, encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestGzipCodec_OutOfRangeLevelFallsBackToDefault(t *testing.T) {
	c := codecs.NewGzip()
	data := []byte("abcabcabcabcabcabcabc")

	encoded, err := c.EncodeBytesToBytes(zarr.Uint8, []byte(`{"level":99}`), data)
	require.NoError(t, err)

	decoded, err := c.DecodeBytesToBytes(zarr.Uint8, nil, encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
