package blob

import (
	"context"
	"path"
)

// Prefixed scopes every object name of a bucket under a fixed prefix, so
// vocabulary and corpus units can share one backing bucket.
type Prefixed struct {
	bucket Bucket
	prefix string
}

// WithPrefix wraps bucket. An empty prefix returns bucket unchanged.
func WithPrefix(bucket Bucket, prefix string) Bucket {
	if prefix == "" {
		return bucket
	}
	return &Prefixed{bucket: bucket, prefix: prefix}
}

// Get reads prefix/name from the underlying bucket.
func (p *Prefixed) Get(ctx context.Context, name string) ([]byte, error) {
	return p.bucket.Get(ctx, path.Join(p.prefix, name))
}

// Put writes prefix/name to the underlying bucket.
func (p *Prefixed) Put(ctx context.Context, name string, data []byte) error {
	return p.bucket.Put(ctx, path.Join(p.prefix, name), data)
}
