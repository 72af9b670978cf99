// Package gcstore implements the zarr.Store contract (§4.6) over a
// gocloud.dev/blob bucket, the one reference store backend spec.md §1
// allows beyond the abstract contract. This is the same bucket
// abstraction the teacher's Reader opens in reader.go's NewReader, so a
// single Store value transparently backs filesystem, in-memory, S3 or
// GCS storage depending on the bucket URL scheme the caller opens it
// with.
package gcstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Store wraps a *blob.Bucket to satisfy zarr.Store. The bucket is
// shared by value semantics matching the array/group façades' "borrow,
// don't own" model (spec.md §9): many Arrays and Groups may share one
// Store, and the bucket itself is responsible for its own concurrency
// safety.
type Store struct {
	bucket *blob.Bucket
}

// New wraps an already-open bucket.
func New(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Open opens a bucket by URL (e.g. "file:///data", "mem://", "s3://bucket")
// and wraps it, mirroring the teacher's NewReader's blob.OpenBucket call.
func Open(ctx context.Context, urlstr string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("gcstore: open bucket %q: %w", urlstr, err)
	}
	return &Store{bucket: bucket}, nil
}

// Close closes the underlying bucket.
func (s *Store) Close() error { return s.bucket.Close() }

// Get reads a key's full value. A missing key surfaces as
// zarr.ErrNotFound (checkable with errors.Is), classified from the
// bucket's gcerrors.NotFound code exactly as the teacher's
// Reader.ReadChunk/ReadFull already do.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, zarr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set writes a key's full value, creating any missing key prefix (the
// bucket driver handles path creation).
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.bucket.WriteAll(ctx, key, value, nil)
}

// Erase deletes one key. A missing key is not an error.
func (s *Store) Erase(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

// EraseValues deletes several keys, stopping at the first failure.
func (s *Store) EraseValues(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := s.Erase(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// ErasePrefix deletes every key beginning with prefix.
func (s *Store) ErasePrefix(ctx context.Context, prefix string) error {
	keys, err := s.ListPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	return s.EraseValues(ctx, keys)
}

// List returns every key in the bucket.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.ListPrefix(ctx, "")
}

// ListPrefix returns every key beginning with prefix.
func (s *Store) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// ListDir returns only the immediate children of prefix: no descent
// past the next "/" separator. Child "directories" are reported
// without a trailing separator, matching the teacher-adjacent
// filesystem store's read_dir semantics (original_source's
// stores/filesystem.rs lists only direct children).
func (s *Store) ListDir(ctx context.Context, prefix string) ([]string, error) {
	opts := &blob.ListOptions{Delimiter: "/"}
	if prefix != "" {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		opts.Prefix = prefix
	}
	var names []string
	iter := s.bucket.List(opts)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(obj.Key, opts.Prefix)
		name = strings.TrimSuffix(name, "/")
		names = append(names, name)
	}
	return names, nil
}

// GetPartialValues implements zarr.PartialReadableStore using the
// bucket's ranged-read support (Bucket.NewRangeReader), the optional
// get_partial_values extension named but not exercised by the core
// paths (spec.md §9 open questions).
func (s *Store) GetPartialValues(ctx context.Context, ranges []zarr.KeyRange) ([][]byte, error) {
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		length := int64(-1)
		if r.Hi > 0 {
			length = r.Hi - r.Lo
		}
		reader, err := s.bucket.NewRangeReader(ctx, r.Key, r.Lo, length, nil)
		if err != nil {
			if gcerrors.Code(err) == gcerrors.NotFound {
				return nil, zarr.ErrNotFound
			}
			return nil, err
		}
		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}

// SetPartialValues is unimplemented: gocloud's blob.Writer has no
// byte-offset write mode, so a partial in-place write would require a
// read-modify-write the bucket driver doesn't expose atomically.
func (s *Store) SetPartialValues(ctx context.Context, values []zarr.KeyRangeValue) error {
	return fmt.Errorf("gcstore: %w", zarr.ErrUnimplemented)
}

var _ zarr.Store = (*Store)(nil)
var _ zarr.PartialReadableStore = (*Store)(nil)
var _ zarr.PartialWriteableStore = (*Store)(nil)

// IsNotFound reports whether err is the store's "key absent" sentinel.
func IsNotFound(err error) bool { return errors.Is(err, zarr.ErrNotFound) }
