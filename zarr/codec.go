package zarr

import "encoding/json"

// ArrayToArrayCodec transforms a typed buffer to a typed buffer (e.g.
// transpose, cast). Any number of these may appear in a pipeline.
type ArrayToArrayCodec interface {
	Name() string
	EncodeArrayToArray(dtype DType, config json.RawMessage, data *ZArr) (*ZArr, error)
	DecodeArrayToArray(dtype DType, config json.RawMessage, data *ZArr) (*ZArr, error)
}

// ArrayToBytesCodec serializes a typed buffer to an opaque byte
// sequence. Exactly one of these sits at the array/bytes boundary of
// every array's pipeline.
type ArrayToBytesCodec interface {
	Name() string
	EncodeArrayToBytes(dtype DType, config json.RawMessage, data *ZArr) ([]byte, error)
	DecodeArrayToBytes(dtype DType, config json.RawMessage, data []byte) (*ZArr, error)
}

// BytesToBytesCodec is a byte-in, byte-out transform (e.g. gzip, blosc
// compression). Any number may appear in a pipeline.
type BytesToBytesCodec interface {
	Name() string
	EncodeBytesToBytes(dtype DType, config json.RawMessage, data []byte) ([]byte, error)
	DecodeBytesToBytes(dtype DType, config json.RawMessage, data []byte) ([]byte, error)
}

// codecKind tags which of the three capability interfaces a registered
// codec implements; the pipeline partitions a declared codecs list by
// this at open time rather than modeling one "codec" interface with
// optional methods, since the payload types genuinely differ between
// capabilities.
type codecKind int

const (
	kindArrayToArray codecKind = iota
	kindArrayToBytes
	kindBytesToBytes
)

// namedCodec is the internal wrapper the registry stores: one concrete
// codec instance plus the capability it was registered under.
type namedCodec struct {
	kind codecKind
	name string
	a2a  ArrayToArrayCodec
	a2b  ArrayToBytesCodec
	b2b  BytesToBytesCodec
}

func (c namedCodec) matches(name string) bool { return c.name == name }
