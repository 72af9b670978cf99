package zarr

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// bytesCodec is the reference "bytes" Array->Bytes codec (§4.2): it
// serializes a typed buffer's flat element sequence to a raw byte
// string in row-major order, honoring the endian configuration for
// every multi-byte scalar type. It is the one codec DefaultCodecRegistry
// pre-registers, since every array's pipeline requires exactly one
// Array->Bytes codec and "bytes" is the format's baseline choice.
type bytesCodec struct{}

func newBytesCodec() ArrayToBytesCodec { return bytesCodec{} }

func (bytesCodec) Name() string { return "bytes" }

type bytesCodecConfig struct {
	Endian string `json:"endian"`
}

func resolveByteOrder(config json.RawMessage) (binary.ByteOrder, error) {
	cfg := bytesCodecConfig{Endian: "little"}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, fmt.Errorf("malformed bytes codec configuration: %w", err)
		}
	}
	switch cfg.Endian {
	case "", "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unsupported bytes codec endian %q", cfg.Endian)
	}
}

// EncodeArrayToBytes serializes every scalar variant to its natural
// byte width; single-byte types (bool, int8, uint8, r8) ignore endian
// entirely since there is nothing to order.
func (bytesCodec) EncodeArrayToBytes(dtype DType, config json.RawMessage, data *ZArr) ([]byte, error) {
	order, err := resolveByteOrder(config)
	if err != nil {
		return nil, err
	}
	n := elementCount(data.Shape())
	buf := make([]byte, n*dtype.Size())

	switch dtype {
	case Bool:
		s, _ := data.Bools()
		for i, v := range s {
			if v {
				buf[i] = 1
			}
		}
	case Int8:
		s, _ := data.Int8s()
		for i, v := range s {
			buf[i] = byte(v)
		}
	case Uint8, Raw8:
		s, _ := data.Uint8s()
		copy(buf, s)
	case Int16:
		s, _ := data.Int16s()
		for i, v := range s {
			order.PutUint16(buf[i*2:], uint16(v))
		}
	case Uint16, Raw16:
		s, _ := data.Uint16s()
		for i, v := range s {
			order.PutUint16(buf[i*2:], v)
		}
	case Int32:
		s, _ := data.Int32s()
		for i, v := range s {
			order.PutUint32(buf[i*4:], uint32(v))
		}
	case Uint32:
		s, _ := data.Uint32s()
		for i, v := range s {
			order.PutUint32(buf[i*4:], v)
		}
	case Int64:
		s, _ := data.Int64s()
		for i, v := range s {
			order.PutUint64(buf[i*8:], uint64(v))
		}
	case Uint64:
		s, _ := data.Uint64s()
		for i, v := range s {
			order.PutUint64(buf[i*8:], v)
		}
	case Float32:
		s, _ := data.Float32s()
		for i, v := range s {
			order.PutUint32(buf[i*4:], math.Float32bits(v))
		}
	case Float64:
		s, _ := data.Float64s()
		for i, v := range s {
			order.PutUint64(buf[i*8:], math.Float64bits(v))
		}
	case Complex64:
		s, _ := data.Complex64s()
		for i, v := range s {
			order.PutUint32(buf[i*8:], math.Float32bits(real(v)))
			order.PutUint32(buf[i*8+4:], math.Float32bits(imag(v)))
		}
	case Complex128:
		s, _ := data.Complex128s()
		for i, v := range s {
			order.PutUint64(buf[i*16:], math.Float64bits(real(v)))
			order.PutUint64(buf[i*16+8:], math.Float64bits(imag(v)))
		}
	default:
		return nil, newTypeError("known DType", dtype.String())
	}
	return buf, nil
}

// DecodeArrayToBytes is EncodeArrayToBytes's inverse. It returns a
// flat (rank-1) buffer whose element count is the byte length divided
// by the dtype's width, failing with ShapeMismatch if the length is not
// a multiple of that width; reshaping to the chunk's extent is left to
// the caller (Array.GetChunk reshapes).
func (bytesCodec) DecodeArrayToBytes(dtype DType, config json.RawMessage, data []byte) (*ZArr, error) {
	order, err := resolveByteOrder(config)
	if err != nil {
		return nil, err
	}
	width := dtype.Size()
	if width == 0 || len(data)%width != 0 {
		return nil, newShapeMismatch("bytes codec: %d bytes is not a multiple of element width %d", len(data), width)
	}
	n := len(data) / width
	shape := []int{n}

	switch dtype {
	case Bool:
		s := make([]bool, n)
		for i := range s {
			s[i] = data[i] != 0
		}
		return FromBools(shape, s), nil
	case Int8:
		s := make([]int8, n)
		for i := range s {
			s[i] = int8(data[i])
		}
		return FromInt8s(shape, s), nil
	case Uint8, Raw8:
		s := make([]uint8, n)
		copy(s, data)
		z := FromUint8s(shape, s)
		z.dtype = dtype
		return z, nil
	case Int16:
		s := make([]int16, n)
		for i := range s {
			s[i] = int16(order.Uint16(data[i*2:]))
		}
		return FromInt16s(shape, s), nil
	case Uint16, Raw16:
		s := make([]uint16, n)
		for i := range s {
			s[i] = order.Uint16(data[i*2:])
		}
		z := FromUint16s(shape, s)
		z.dtype = dtype
		return z, nil
	case Int32:
		s := make([]int32, n)
		for i := range s {
			s[i] = int32(order.Uint32(data[i*4:]))
		}
		return FromInt32s(shape, s), nil
	case Uint32:
		s := make([]uint32, n)
		for i := range s {
			s[i] = order.Uint32(data[i*4:])
		}
		return FromUint32s(shape, s), nil
	case Int64:
		s := make([]int64, n)
		for i := range s {
			s[i] = int64(order.Uint64(data[i*8:]))
		}
		return FromInt64s(shape, s), nil
	case Uint64:
		s := make([]uint64, n)
		for i := range s {
			s[i] = order.Uint64(data[i*8:])
		}
		return FromUint64s(shape, s), nil
	case Float32:
		s := make([]float32, n)
		for i := range s {
			s[i] = math.Float32frombits(order.Uint32(data[i*4:]))
		}
		return FromFloat32s(shape, s), nil
	case Float64:
		s := make([]float64, n)
		for i := range s {
			s[i] = math.Float64frombits(order.Uint64(data[i*8:]))
		}
		return FromFloat64s(shape, s), nil
	case Complex64:
		s := make([]complex64, n)
		for i := range s {
			re := math.Float32frombits(order.Uint32(data[i*8:]))
			im := math.Float32frombits(order.Uint32(data[i*8+4:]))
			s[i] = complex(re, im)
		}
		return FromComplex64s(shape, s), nil
	case Complex128:
		s := make([]complex128, n)
		for i := range s {
			re := math.Float64frombits(order.Uint64(data[i*16:]))
			im := math.Float64frombits(order.Uint64(data[i*16+8:]))
			s[i] = complex(re, im)
		}
		return FromComplex128s(shape, s), nil
	default:
		return nil, newTypeError("known DType", dtype.String())
	}
}
