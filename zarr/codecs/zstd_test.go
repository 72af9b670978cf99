package codecs_test

import (
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/TuSKan/zarr-gomlx/zarr/codecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCodec_RoundTrip(t *testing.T) {
	c := codecs.NewZstd()
	assert.Equal(t, "zstd", c.Name())

	data := []byte("0123456789012345678901234567890123456789")
	encoded, err := c.EncodeBytesToBytes(zarr.Uint8, []byte(`{"level":9}`), data)
	require.NoError(t, err)

	decoded, err := c.DecodeBytesToBytes(zarr.Uint8, nil, encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
