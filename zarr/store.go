package zarr

import "context"

// ReadableStore is the read half of the abstract key-value store
// contract (§4.6). Get returns ErrNotFound (checkable with errors.Is)
// when the key has no value; any other failure is the backend's own
// error, which callers wrap as StoreError.
type ReadableStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ListableStore lists keys and immediate children.
type ListableStore interface {
	List(ctx context.Context) ([]string, error)
	ListPrefix(ctx context.Context, prefix string) ([]string, error)
	ListDir(ctx context.Context, prefix string) ([]string, error)
}

// WriteableStore is the write half of the store contract.
type WriteableStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Erase(ctx context.Context, key string) error
	EraseValues(ctx context.Context, keys []string) error
	ErasePrefix(ctx context.Context, prefix string) error
}

// KeyRange names a byte range within one key's value, for partial
// reads.
type KeyRange struct {
	Key  string
	Lo   int64
	Hi   int64 // exclusive; Hi == 0 means "to end"
}

// KeyRangeValue names a byte offset and value to write within one
// key's value, for partial writes.
type KeyRangeValue struct {
	Key    string
	Offset int64
	Value  []byte
}

// PartialReadableStore is the optional get_partial_values extension
// (§4.6). A backend that does not implement byte-range reads should
// not implement this interface; the GetPartialValues function below falls
// back to ErrUnimplemented when the underlying store doesn't satisfy
// it.
type PartialReadableStore interface {
	GetPartialValues(ctx context.Context, ranges []KeyRange) ([][]byte, error)
}

// PartialWriteableStore is the optional set_partial_values extension.
type PartialWriteableStore interface {
	SetPartialValues(ctx context.Context, values []KeyRangeValue) error
}

// Store is the full abstract key-value store contract §4.6 composes
// from. Concrete backends are out of scope for this core beyond the
// one reference implementation in package gcstore; this core only
// depends on this interface.
type Store interface {
	ReadableStore
	ListableStore
	WriteableStore
}

// GetPartialValues calls the store's optional partial-read extension
// if it implements PartialReadableStore, else returns ErrUnimplemented.
func GetPartialValues(ctx context.Context, s Store, ranges []KeyRange) ([][]byte, error) {
	if p, ok := s.(PartialReadableStore); ok {
		return p.GetPartialValues(ctx, ranges)
	}
	return nil, ErrUnimplemented
}

// SetPartialValues calls the store's optional partial-write extension
// if it implements PartialWriteableStore, else returns ErrUnimplemented.
func SetPartialValues(ctx context.Context, s Store, values []KeyRangeValue) error {
	if p, ok := s.(PartialWriteableStore); ok {
		return p.SetPartialValues(ctx, values)
	}
	return ErrUnimplemented
}
