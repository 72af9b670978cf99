package zarr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedCodecMatches(t *testing.T) {
	nc := namedCodec{name: "bytes"}
	assert.True(t, nc.matches("bytes"))
	assert.False(t, nc.matches("gzip"))
}

func TestBuildPipeline_UnregisteredCodec(t *testing.T) {
	_, err := buildPipeline(Int8, []CodecDescriptor{{Name: "nope"}}, DefaultCodecRegistry())
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.True(t, errors.Is(err, ErrUnregisteredCodec))
}

func TestBuildPipeline_RequiresExactlyOneArrayToBytes(t *testing.T) {
	_, err := buildPipeline(Int8, nil, DefaultCodecRegistry())
	require.Error(t, err)

	reg := DefaultCodecRegistry()
	_, err = buildPipeline(Int8, []CodecDescriptor{{Name: "bytes"}, {Name: "bytes"}}, reg)
	require.Error(t, err)
}

func TestPipeline_EncodeDecodeRoundTrip(t *testing.T) {
	p, err := buildPipeline(Int32, []CodecDescriptor{{Name: "bytes", Configuration: json.RawMessage(`{"endian":"big"}`)}}, DefaultCodecRegistry())
	require.NoError(t, err)

	buf := FromInt32s([]int{3}, []int32{7, -1, 42})
	encoded, err := p.encode(buf)
	require.NoError(t, err)

	decoded, err := p.decode(encoded)
	require.NoError(t, err)
	got, err := decoded.Int32s()
	require.NoError(t, err)
	assert.Equal(t, []int32{7, -1, 42}, got)
}
