package codecs

import (
	"encoding/json"
	"fmt"

	"github.com/TuSKan/zarr-gomlx/zarr"
	gblosc "github.com/mrjoshuak/go-blosc"
)

// bloscCodec is the reference "blosc" Bytes->Bytes codec (§4.2), ported
// from original_source/src/codecs/blosc.rs's BloscCodec. typesize is
// ignored when shuffle is "noshuffle" and blocksize=0 means "auto",
// mirroring BloscCodecConfig::normalized_typesize/normalized_blocksize.
// Decoding needs no configuration: blosc's own frame header carries
// everything required to size and shuffle-reverse the output, the same
// property the teacher's reader.go relies on when it calls
// blosc.Decompress(chunkData) with no extra arguments.
type bloscCodec struct{}

// NewBlosc returns the reference blosc codec.
func NewBlosc() zarr.BytesToBytesCodec { return bloscCodec{} }

func (bloscCodec) Name() string { return "blosc" }

type bloscConfig struct {
	TypeSize  int    `json:"typesize"`
	Cname     string `json:"cname"`
	Clevel    int    `json:"clevel"`
	Shuffle   string `json:"shuffle"`
	Blocksize int    `json:"blocksize"`
}

func parseBloscConfig(config json.RawMessage) (bloscConfig, error) {
	cfg := bloscConfig{Cname: "lz4", Clevel: 5, Shuffle: "shuffle"}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return cfg, fmt.Errorf("malformed blosc codec configuration: %w", err)
		}
	}
	return cfg, nil
}

func bloscShuffleMode(shuffle string) (gblosc.ShuffleMode, error) {
	switch shuffle {
	case "noshuffle":
		return gblosc.NoShuffle, nil
	case "shuffle", "":
		return gblosc.Shuffle, nil
	case "bitshuffle":
		return gblosc.BitShuffle, nil
	default:
		return 0, fmt.Errorf("unsupported blosc shuffle %q", shuffle)
	}
}

func bloscCompressorName(cname string) (string, error) {
	switch cname {
	case "lz4", "lz4hc", "blosclz", "zstd", "snappy", "zlib":
		return cname, nil
	case "":
		return "lz4", nil
	default:
		return "", fmt.Errorf("unsupported blosc cname %q", cname)
	}
}

func (bloscCodec) EncodeBytesToBytes(_ zarr.DType, config json.RawMessage, data []byte) ([]byte, error) {
	cfg, err := parseBloscConfig(config)
	if err != nil {
		return nil, err
	}
	shuffle, err := bloscShuffleMode(cfg.Shuffle)
	if err != nil {
		return nil, err
	}
	cname, err := bloscCompressorName(cfg.Cname)
	if err != nil {
		return nil, err
	}

	typesize := cfg.TypeSize
	if shuffle == gblosc.NoShuffle {
		typesize = 0
	}
	blocksize := cfg.Blocksize
	if blocksize < 0 {
		blocksize = 0
	}

	return gblosc.Compress(gblosc.CompressOptions{
		Clevel:    cfg.Clevel,
		Shuffle:   shuffle,
		Typesize:  typesize,
		Blocksize: blocksize,
		Cname:     cname,
	}, data)
}

func (bloscCodec) DecodeBytesToBytes(_ zarr.DType, _ json.RawMessage, data []byte) ([]byte, error) {
	return gblosc.Decompress(data)
}
