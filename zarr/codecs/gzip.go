// Package codecs provides the Bytes->Bytes reference codecs named in
// spec.md §4.2 (gzip, blosc) plus one non-spec extra (zstd), each
// grounded in the original Rust implementation's codecs/ module and the
// teacher's already-wired compression dependencies (reader.go decodes
// "blosc" and "zlib"/"gzip" chunks; go.mod already requires
// klauspost/compress). None of these hold state: Encode/Decode take the
// element type, the codec's own JSON configuration and the payload, and
// return a transformed payload or an error, exactly like
// zarr.BytesToBytesCodec requires.
package codecs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/klauspost/compress/gzip"
)

// gzipCodec is the reference "gzip" Bytes->Bytes codec (§4.2), ported
// from original_source/src/codecs/gzip.rs's GZipCodec: an out-of-range
// configured level silently falls back to the default (6) rather than
// erroring, matching GZipCodecConfig's From<GzCompression> impl.
type gzipCodec struct{}

// NewGzip returns the reference gzip codec.
func NewGzip() zarr.BytesToBytesCodec { return gzipCodec{} }

type gzipConfig struct {
	Level int `json:"level"`
}

func (gzipCodec) Name() string { return "gzip" }

func normalizeLevel(level int) int {
	if level < 0 || level > 9 {
		return gzip.DefaultCompression
	}
	return level
}

func (gzipCodec) EncodeBytesToBytes(_ zarr.DType, config json.RawMessage, data []byte) ([]byte, error) {
	cfg := gzipConfig{Level: 6}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, fmt.Errorf("malformed gzip codec configuration: %w", err)
		}
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, normalizeLevel(cfg.Level))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCodec) DecodeBytesToBytes(_ zarr.DType, _ json.RawMessage, data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
