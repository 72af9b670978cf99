package zarr

import "fmt"

// pipeline is the resolved, ordered composition of codecs declared in
// an array's metadata, partitioned by capability per §4.2:
//
//	Array  -[A->A]*->  Array  -[A->B]->  Bytes  -[B->B]*->  Bytes
//
// arrayToArray and bytesToBytes preserve declared order; encode walks
// front-to-back, decode walks the same slices in reverse.
type pipeline struct {
	dtype        DType
	arrayToArray []resolvedCodec
	arrayToBytes resolvedCodec
	bytesToBytes []resolvedCodec
}

type resolvedCodec struct {
	descriptor CodecDescriptor
	codec      namedCodec
}

// buildPipeline resolves a declared codecs list against a registry,
// partitioning it into the three capability groups in declared order.
// An unknown codec name surfaces as CodecError("unregistered") here,
// when the Array is opened or created, never silently skipped.
func buildPipeline(dtype DType, descriptors []CodecDescriptor, registry CodecRegistry) (*pipeline, error) {
	p := &pipeline{dtype: dtype}
	for _, d := range descriptors {
		c, ok := registry.lookup(d.Name)
		if !ok {
			return nil, newCodecError(d.Name, ErrUnregisteredCodec)
		}
		switch c.kind {
		case kindArrayToArray:
			p.arrayToArray = append(p.arrayToArray, resolvedCodec{d, c})
		case kindArrayToBytes:
			if p.arrayToBytes.codec.name != "" {
				return nil, newCodecError(d.Name, fmt.Errorf("more than one array->bytes codec declared"))
			}
			p.arrayToBytes = resolvedCodec{d, c}
		case kindBytesToBytes:
			p.bytesToBytes = append(p.bytesToBytes, resolvedCodec{d, c})
		}
	}
	if p.arrayToBytes.codec.name == "" {
		return nil, newCodecError("", fmt.Errorf("exactly one array->bytes codec is required"))
	}
	return p, nil
}

// encode walks the pipeline front-to-back: all Array->Array codecs in
// declared order, then the Array->Bytes codec, then all Bytes->Bytes
// codecs in declared order.
func (p *pipeline) encode(data *ZArr) ([]byte, error) {
	cur := data
	for _, rc := range p.arrayToArray {
		out, err := rc.codec.a2a.EncodeArrayToArray(p.dtype, rc.descriptor.Configuration, cur)
		if err != nil {
			return nil, newCodecError(rc.codec.name, err)
		}
		cur = out
	}

	b, err := p.arrayToBytes.codec.a2b.EncodeArrayToBytes(p.dtype, p.arrayToBytes.descriptor.Configuration, cur)
	if err != nil {
		return nil, newCodecError(p.arrayToBytes.codec.name, err)
	}

	for _, rc := range p.bytesToBytes {
		out, err := rc.codec.b2b.EncodeBytesToBytes(p.dtype, rc.descriptor.Configuration, b)
		if err != nil {
			return nil, newCodecError(rc.codec.name, err)
		}
		b = out
	}
	return b, nil
}

// decode walks the pipeline back-to-front: Bytes->Bytes codecs in
// reverse declared order, then the Array->Bytes decode, then
// Array->Array codecs in reverse declared order.
func (p *pipeline) decode(data []byte) (*ZArr, error) {
	b := data
	for i := len(p.bytesToBytes) - 1; i >= 0; i-- {
		rc := p.bytesToBytes[i]
		out, err := rc.codec.b2b.DecodeBytesToBytes(p.dtype, rc.descriptor.Configuration, b)
		if err != nil {
			return nil, newCodecError(rc.codec.name, err)
		}
		b = out
	}

	cur, err := p.arrayToBytes.codec.a2b.DecodeArrayToBytes(p.dtype, p.arrayToBytes.descriptor.Configuration, b)
	if err != nil {
		return nil, newCodecError(p.arrayToBytes.codec.name, err)
	}

	for i := len(p.arrayToArray) - 1; i >= 0; i-- {
		rc := p.arrayToArray[i]
		out, err := rc.codec.a2a.DecodeArrayToArray(p.dtype, rc.descriptor.Configuration, cur)
		if err != nil {
			return nil, newCodecError(rc.codec.name, err)
		}
		cur = out
	}
	return cur, nil
}
