package zarr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Group opens/creates a named container and resolves child
// arrays/groups by relative path (§4.5). Attribute mutations rewrite
// the group's zarr.json; callers mutating attributes concurrently on
// the same Group value must synchronize themselves (§5).
type Group struct {
	store Store
	path  string
	meta  *GroupMetadata
}

// OpenGroup reads `{path}/zarr.json` and constructs a Group, failing
// with GroupError on a missing key, bad JSON, wrong node_type or
// unsupported zarr_format.
func OpenGroup(ctx context.Context, store Store, path string) (*Group, error) {
	raw, err := store.Get(ctx, metadataKey(path))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newGroupError("open", fmt.Errorf("%s: %w", metadataKey(path), ErrNotFound))
		}
		return nil, newGroupError("open", newStoreError("get", metadataKey(path), err))
	}
	meta, err := ParseGroupMetadata(raw)
	if err != nil {
		return nil, err
	}
	return &Group{store: store, path: path, meta: meta}, nil
}

// CreateGroup writes `{path}/zarr.json` for a new group.
func CreateGroup(ctx context.Context, store Store, path string, attributes map[string]any) (*Group, error) {
	meta := newGroupMetadata(attributes)
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, newGroupError("create", err)
	}
	if err := store.Set(ctx, metadataKey(path), raw); err != nil {
		return nil, newGroupError("create", newStoreError("set", metadataKey(path), err))
	}
	return &Group{store: store, path: path, meta: meta}, nil
}

// Path returns the group's path within the store.
func (g *Group) Path() string { return g.path }

// Metadata returns the group's parsed metadata.
func (g *Group) Metadata() *GroupMetadata { return g.meta }

// Name reads the group's own "name" attribute, defaulting to "".
func (g *Group) Name() string {
	if g.meta.Attributes == nil {
		return ""
	}
	if v, ok := g.meta.Attributes["name"].(string); ok {
		return v
	}
	return ""
}

func childPath(parent, name string) string { return joinKey(parent, name) }

// GetArray opens a child array by relative name.
func (g *Group) GetArray(ctx context.Context, name string, registry *CodecRegistry) (*Array, error) {
	return OpenArray(ctx, g.store, childPath(g.path, name), registry)
}

// GetGroup opens a child group by relative name.
func (g *Group) GetGroup(ctx context.Context, name string) (*Group, error) {
	return OpenGroup(ctx, g.store, childPath(g.path, name))
}

// CreateGroup creates a child group by relative name.
func (g *Group) CreateGroup(ctx context.Context, name string, attributes map[string]any) (*Group, error) {
	return CreateGroup(ctx, g.store, childPath(g.path, name), attributes)
}

// CreateArray creates a child array by relative name.
func (g *Group) CreateArray(ctx context.Context, name string, shape, chunkShape []int, dtype DType, fillValue any, codecs []CodecDescriptor, opts *CreateArrayOptions) (*Array, error) {
	return CreateArray(ctx, g.store, childPath(g.path, name), shape, chunkShape, dtype, fillValue, codecs, opts)
}

func (g *Group) persist(ctx context.Context) error {
	raw, err := json.Marshal(g.meta)
	if err != nil {
		return newGroupError("set attributes", err)
	}
	if err := g.store.Set(ctx, metadataKey(g.path), raw); err != nil {
		return newGroupError("set attributes", newStoreError("set", metadataKey(g.path), err))
	}
	return nil
}

// SetAttrs replaces the group's entire attribute map and rewrites
// zarr.json.
func (g *Group) SetAttrs(ctx context.Context, attrs map[string]any) error {
	g.meta.Attributes = attrs
	return g.persist(ctx)
}

// AddAttrs merges the given key/value pairs into the group's attribute
// map and rewrites zarr.json.
func (g *Group) AddAttrs(ctx context.Context, attrs map[string]any) error {
	if g.meta.Attributes == nil {
		g.meta.Attributes = map[string]any{}
	}
	for k, v := range attrs {
		g.meta.Attributes[k] = v
	}
	return g.persist(ctx)
}

// AddAttr sets a single attribute and rewrites zarr.json.
func (g *Group) AddAttr(ctx context.Context, key string, value any) error {
	return g.AddAttrs(ctx, map[string]any{key: value})
}

// RemoveAttrs deletes the given keys from the group's attribute map
// and rewrites zarr.json.
func (g *Group) RemoveAttrs(ctx context.Context, keys []string) error {
	if g.meta.Attributes == nil {
		return g.persist(ctx)
	}
	for _, k := range keys {
		delete(g.meta.Attributes, k)
	}
	return g.persist(ctx)
}

// RemoveAttr deletes a single attribute key and rewrites zarr.json.
func (g *Group) RemoveAttr(ctx context.Context, key string) error {
	return g.RemoveAttrs(ctx, []string{key})
}
