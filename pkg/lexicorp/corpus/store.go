// Package corpus persists bag-of-words vectors as Matrix Market units, one
// unit per ingested document.
package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
	"github.com/cognicore/lexicorp/pkg/lexicorp/bow"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

// Store reads and writes named corpus units in a bucket.
type Store struct {
	bucket      blob.Bucket
	compression Compression
}

// NewStore creates a corpus store. An empty compression means none.
func NewStore(bucket blob.Bucket, compression Compression) *Store {
	if compression == "" {
		compression = CompressionNone
	}
	return &Store{bucket: bucket, compression: compression}
}

// ObjectName returns the bucket object a unit is stored under.
func (s *Store) ObjectName(name string) string {
	return name + ".mm" + s.compression.Ext()
}

// Load reads a unit. The bool is false when the unit does not exist yet.
func (s *Store) Load(ctx context.Context, name string) (*Corpus, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}
	obj := s.ObjectName(name)

	data, err := s.bucket.Get(ctx, obj)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read corpus %s: %w", internalerr.ErrPersistence, obj, err)
	}

	raw, err := s.compression.decompress(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: decompress corpus %s: %w", internalerr.ErrCorrupt, obj, err)
	}
	c, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, false, fmt.Errorf("decode corpus %s: %w", obj, err)
	}
	return c, true, nil
}

// Write stores vectors as the named unit, replacing any previous unit, and
// returns the unit as re-read from the bucket. The run fails if the stored
// unit does not read back identical to what was written.
func (s *Store) Write(ctx context.Context, name string, vectors []bow.Vector) (*Corpus, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateVectors(vectors); err != nil {
		return nil, err
	}
	obj := s.ObjectName(name)

	var buf bytes.Buffer
	if err := Encode(&buf, vectors); err != nil {
		return nil, fmt.Errorf("%w: encode corpus %s: %w", internalerr.ErrPersistence, obj, err)
	}
	data, err := s.compression.compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: compress corpus %s: %w", internalerr.ErrPersistence, obj, err)
	}
	if err := s.bucket.Put(ctx, obj, data); err != nil {
		return nil, fmt.Errorf("%w: write corpus %s: %w", internalerr.ErrPersistence, obj, err)
	}

	stored, found, err := s.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: verify corpus %s: %w", internalerr.ErrPersistence, obj, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: corpus %s missing after write", internalerr.ErrPersistence, obj)
	}
	if !stored.Equal(FromVectors(vectors)) {
		return nil, fmt.Errorf("%w: corpus %s did not round-trip", internalerr.ErrPersistence, obj)
	}
	return stored, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: corpus name %q", internalerr.ErrInvalidInput, name)
	}
	return nil
}

func validateVectors(vectors []bow.Vector) error {
	if len(vectors) > MaxRows {
		return fmt.Errorf("%w: %d rows exceeds limit of %d", internalerr.ErrInvalidInput, len(vectors), MaxRows)
	}
	for row, vec := range vectors {
		for i, e := range vec {
			if e.ID < 0 {
				return fmt.Errorf("%w: row %d: negative id %d", internalerr.ErrInvalidInput, row, e.ID)
			}
			if e.Count <= 0 {
				return fmt.Errorf("%w: row %d: non-positive count for id %d", internalerr.ErrInvalidInput, row, e.ID)
			}
			if i > 0 && e.ID <= vec[i-1].ID {
				return fmt.Errorf("%w: row %d: ids not strictly ascending", internalerr.ErrInvalidInput, row)
			}
		}
	}
	return nil
}
