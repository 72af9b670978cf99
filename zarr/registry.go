package zarr

// CodecRegistry maps codec names to instances. It is effectively
// immutable after construction: each Register* method returns a new registry value
// rather than mutating a shared one, so a registry handed to many
// concurrently-open arrays never needs its own lock.
type CodecRegistry struct {
	codecs map[string]namedCodec
}

// NewCodecRegistry returns an empty registry. Most callers want
// DefaultCodecRegistry instead.
func NewCodecRegistry() CodecRegistry {
	return CodecRegistry{codecs: map[string]namedCodec{}}
}

// DefaultCodecRegistry returns a registry pre-populated with the
// reference "bytes" Array->Bytes codec, per §4.2.
func DefaultCodecRegistry() CodecRegistry {
	r := NewCodecRegistry()
	return r.RegisterArrayToBytes(newBytesCodec())
}

func (r CodecRegistry) clone() CodecRegistry {
	out := make(map[string]namedCodec, len(r.codecs)+1)
	for k, v := range r.codecs {
		out[k] = v
	}
	return CodecRegistry{codecs: out}
}

// RegisterArrayToArray returns a new registry with the given codec
// registered under its name. Registration is idempotent: registering
// the same name again replaces the prior instance.
func (r CodecRegistry) RegisterArrayToArray(c ArrayToArrayCodec) CodecRegistry {
	out := r.clone()
	out.codecs[c.Name()] = namedCodec{kind: kindArrayToArray, name: c.Name(), a2a: c}
	return out
}

// RegisterArrayToBytes returns a new registry with the given codec
// registered under its name.
func (r CodecRegistry) RegisterArrayToBytes(c ArrayToBytesCodec) CodecRegistry {
	out := r.clone()
	out.codecs[c.Name()] = namedCodec{kind: kindArrayToBytes, name: c.Name(), a2b: c}
	return out
}

// RegisterBytesToBytes returns a new registry with the given codec
// registered under its name.
func (r CodecRegistry) RegisterBytesToBytes(c BytesToBytesCodec) CodecRegistry {
	out := r.clone()
	out.codecs[c.Name()] = namedCodec{kind: kindBytesToBytes, name: c.Name(), b2b: c}
	return out
}

func (r CodecRegistry) lookup(name string) (namedCodec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}
