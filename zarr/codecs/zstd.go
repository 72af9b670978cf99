package codecs

import (
	"encoding/json"
	"fmt"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/klauspost/compress/zstd"
)

// zstdCodec is a non-spec extra Bytes->Bytes codec: spec.md §4.2 only
// names bytes/gzip/blosc as reference codecs, but format callers are
// free to register additional ones (the registry is open, spec.md §4.2
// "Callers may register additional codecs"). This reuses
// klauspost/compress/zstd, the same decompressor the teacher's
// zarr/dataset.go already wires for its v2 "zstd" compressor id, so a
// v3 array can opt into zstd chunks with the identical on-wire format
// the teacher's Dataset batches already consume.
type zstdCodec struct{}

// NewZstd returns the extra zstd codec.
func NewZstd() zarr.BytesToBytesCodec { return zstdCodec{} }

func (zstdCodec) Name() string { return "zstd" }

type zstdConfig struct {
	Level int `json:"level"`
}

func zstdEncoderLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 3:
		return zstd.SpeedDefault
	case level <= 6:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func (zstdCodec) EncodeBytesToBytes(_ zarr.DType, config json.RawMessage, data []byte) ([]byte, error) {
	cfg := zstdConfig{Level: 3}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, fmt.Errorf("malformed zstd codec configuration: %w", err)
		}
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdEncoderLevel(cfg.Level)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (zstdCodec) DecodeBytesToBytes(_ zarr.DType, _ json.RawMessage, data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
