package zarr

import (
	"encoding/json"
	"fmt"
)

// CodecDescriptor is one entry of an array's codecs list: a named,
// JSON-configured transform resolved lazily against a CodecRegistry.
type CodecDescriptor struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// Extension is the generic {name, configuration} shape used for
// chunk_grid, chunk_key_encoding and storage_transformers entries.
type Extension struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// RegularChunkGridConfig is the configuration of the only supported
// chunk_grid kind, "regular".
type RegularChunkGridConfig struct {
	ChunkShape []int `json:"chunk_shape"`
}

// DefaultChunkKeyEncodingConfig is the configuration of the "default"
// chunk_key_encoding kind.
type DefaultChunkKeyEncodingConfig struct {
	Separator string `json:"separator"`
}

// ArrayMetadata is the parsed `{path}/zarr.json` document for an array,
// per §3. Peripheral fields (storage_transformers, dimension_names,
// free-form attributes) are preserved, not interpreted; JSON keys not
// named in this struct are ignored on parse and not written back.
type ArrayMetadata struct {
	ZarrFormat          int               `json:"zarr_format"`
	NodeType            string            `json:"node_type"`
	Shape               []int             `json:"shape"`
	DataType            json.RawMessage   `json:"data_type"`
	ChunkGrid           Extension         `json:"chunk_grid"`
	ChunkKeyEncoding    Extension         `json:"chunk_key_encoding"`
	FillValue           any               `json:"fill_value"`
	Codecs              []CodecDescriptor `json:"codecs"`
	Attributes          map[string]any    `json:"attributes,omitempty"`
	DimensionNames      []string          `json:"dimension_names,omitempty"`
	StorageTransformers []Extension       `json:"storage_transformers,omitempty"`

	dtype DType
}

// GroupMetadata is the parsed `{path}/zarr.json` document for a group.
type GroupMetadata struct {
	ZarrFormat int            `json:"zarr_format"`
	NodeType   string         `json:"node_type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// ParseArrayMetadata decodes and validates raw zarr.json bytes for an
// array, per the invariants of §3's metadata table.
func ParseArrayMetadata(raw []byte) (*ArrayMetadata, error) {
	var m ArrayMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, newArrayError("parse metadata", err)
	}
	if m.ZarrFormat != 3 {
		return nil, newArrayError("parse metadata", fmt.Errorf("unsupported zarr_format %d, want 3", m.ZarrFormat))
	}
	if m.NodeType != "array" {
		return nil, newArrayError("parse metadata", fmt.Errorf("wrong node_type %q, want \"array\"", m.NodeType))
	}
	if len(m.Shape) < 1 {
		return nil, newArrayError("parse metadata", fmt.Errorf("shape must have rank >= 1"))
	}
	dtype, err := parseDataType(m.DataType)
	if err != nil {
		return nil, newArrayError("parse metadata", err)
	}
	m.dtype = dtype

	if m.ChunkGrid.Name != "regular" {
		return nil, newArrayError("parse metadata", fmt.Errorf("unsupported chunk_grid %q, want \"regular\"", m.ChunkGrid.Name))
	}
	cs, err := m.ChunkShape()
	if err != nil {
		return nil, newArrayError("parse metadata", err)
	}
	if len(cs) != len(m.Shape) {
		return nil, newArrayError("parse metadata", fmt.Errorf("chunk_shape rank %d != shape rank %d", len(cs), len(m.Shape)))
	}
	for i, c := range cs {
		if c < 1 {
			return nil, newArrayError("parse metadata", fmt.Errorf("chunk_shape[%d] must be >= 1", i))
		}
	}

	if m.ChunkKeyEncoding.Name == "" {
		m.ChunkKeyEncoding = Extension{Name: "default", Configuration: json.RawMessage(`{"separator":"/"}`)}
	}
	sep, err := m.chunkKeySeparator()
	if err != nil {
		return nil, newArrayError("parse metadata", err)
	}
	if sep != "/" && sep != "." {
		return nil, newArrayError("parse metadata", fmt.Errorf("unsupported chunk key separator %q", sep))
	}

	if len(m.Codecs) == 0 {
		return nil, newArrayError("parse metadata", fmt.Errorf("codecs list must declare exactly one array->bytes codec"))
	}

	return &m, nil
}

func parseDataType(raw json.RawMessage) (DType, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return ParseDType(name)
	}
	var ext Extension
	if err := json.Unmarshal(raw, &ext); err == nil && ext.Name != "" {
		return 0, fmt.Errorf("data_type extension %q is not supported by this core", ext.Name)
	}
	return 0, fmt.Errorf("malformed data_type")
}

// DType returns the array's resolved element type.
func (m *ArrayMetadata) DType() DType { return m.dtype }

// ChunkShape decodes the chunk_grid configuration's chunk_shape field.
func (m *ArrayMetadata) ChunkShape() ([]int, error) {
	var cfg RegularChunkGridConfig
	if err := json.Unmarshal(m.ChunkGrid.Configuration, &cfg); err != nil {
		return nil, fmt.Errorf("malformed chunk_grid configuration: %w", err)
	}
	return cfg.ChunkShape, nil
}

func (m *ArrayMetadata) chunkKeySeparator() (string, error) {
	if m.ChunkKeyEncoding.Name != "default" {
		return "", fmt.Errorf("unsupported chunk_key_encoding %q", m.ChunkKeyEncoding.Name)
	}
	if len(m.ChunkKeyEncoding.Configuration) == 0 {
		return "/", nil
	}
	var cfg DefaultChunkKeyEncodingConfig
	if err := json.Unmarshal(m.ChunkKeyEncoding.Configuration, &cfg); err != nil {
		return "", fmt.Errorf("malformed chunk_key_encoding configuration: %w", err)
	}
	if cfg.Separator == "" {
		return "/", nil
	}
	return cfg.Separator, nil
}

// newArrayMetadata builds array metadata for CreateArray.
func newArrayMetadata(shape, chunkShape []int, dtype DType, fillValue any, codecs []CodecDescriptor, sep string, dimNames []string, attrs map[string]any) (*ArrayMetadata, error) {
	if len(shape) < 1 {
		return nil, fmt.Errorf("shape must have rank >= 1")
	}
	if len(chunkShape) != len(shape) {
		return nil, fmt.Errorf("chunk_shape rank %d != shape rank %d", len(chunkShape), len(shape))
	}
	for i, c := range chunkShape {
		if c < 1 {
			return nil, fmt.Errorf("chunk_shape[%d] must be >= 1", i)
		}
	}
	if sep == "" {
		sep = "/"
	}
	if sep != "/" && sep != "." {
		return nil, fmt.Errorf("unsupported chunk key separator %q", sep)
	}
	if len(codecs) == 0 {
		return nil, fmt.Errorf("codecs list must declare exactly one array->bytes codec")
	}

	cgCfg, _ := json.Marshal(RegularChunkGridConfig{ChunkShape: chunkShape})
	ckeCfg, _ := json.Marshal(DefaultChunkKeyEncodingConfig{Separator: sep})
	dtJSON, _ := json.Marshal(dtype.String())

	m := &ArrayMetadata{
		ZarrFormat:       3,
		NodeType:         "array",
		Shape:            append([]int(nil), shape...),
		DataType:         dtJSON,
		ChunkGrid:        Extension{Name: "regular", Configuration: cgCfg},
		ChunkKeyEncoding: Extension{Name: "default", Configuration: ckeCfg},
		FillValue:        fillValue,
		Codecs:           codecs,
		Attributes:       attrs,
		DimensionNames:   dimNames,
		dtype:            dtype,
	}
	return m, nil
}

// ParseGroupMetadata decodes and validates raw zarr.json bytes for a
// group.
func ParseGroupMetadata(raw []byte) (*GroupMetadata, error) {
	var m GroupMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, newGroupError("parse metadata", err)
	}
	if m.ZarrFormat != 3 {
		return nil, newGroupError("parse metadata", fmt.Errorf("unsupported zarr_format %d, want 3", m.ZarrFormat))
	}
	if m.NodeType != "group" {
		return nil, newGroupError("parse metadata", fmt.Errorf("wrong node_type %q, want \"group\"", m.NodeType))
	}
	return &m, nil
}

func newGroupMetadata(attrs map[string]any) *GroupMetadata {
	return &GroupMetadata{ZarrFormat: 3, NodeType: "group", Attributes: attrs}
}
