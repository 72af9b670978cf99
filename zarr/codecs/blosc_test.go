package codecs_test

import (
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/TuSKan/zarr-gomlx/zarr/codecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloscCodec_RoundTrip(t *testing.T) {
	c := codecs.NewBlosc()
	assert.Equal(t, "blosc", c.Name())

	data := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	config := []byte(`{"typesize":1,"cname":"lz4","clevel":5,"shuffle":"shuffle","blocksize":0}`)

	encoded, err := c.EncodeBytesToBytes(zarr.Uint8, config, data)
	require.NoError(t, err)

	decoded, err := c.DecodeBytesToBytes(zarr.Uint8, nil, encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestBloscCodec_NoShuffleIgnoresTypesize(t *testing.T) {
	c := codecs.NewBlosc()
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	config := []byte(`{"typesize":4,"cname":"zstd","clevel":3,"shuffle":"noshuffle","blocksize":0}`)

	encoded, err := c.EncodeBytesToBytes(zarr.Uint8, config, data)
	require.NoError(t, err)
	decoded, err := c.DecodeBytesToBytes(zarr.Uint8, nil, encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
