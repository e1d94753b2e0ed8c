// Package minio stores vocabulary and corpus units in MinIO or any other
// S3-compatible object store.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
)

// Options configures a MinIO connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// Bucket implements blob.Bucket for MinIO and S3-compatible storage.
type Bucket struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a Bucket for an existing client.
// bucket is the object store bucket; prefix is prepended to all keys (e.g. "lexicorp/").
func New(client *minio.Client, bucket, prefix string) *Bucket {
	return &Bucket{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Dial creates a client from opts and wraps it.
func Dial(opts Options) (*Bucket, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client for %s: %w", opts.Endpoint, err)
	}
	return New(client, opts.Bucket, opts.Prefix), nil
}

func (b *Bucket) key(name string) string {
	return path.Join(b.prefix, name)
}

// Get downloads the named object.
func (b *Bucket) Get(ctx context.Context, name string) ([]byte, error) {
	key := b.key(name)

	if _, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get %s: %w", key, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}

	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get %s: %w", key, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put uploads data as a single object; the store makes it visible atomically.
func (b *Bucket) Put(ctx context.Context, name string, data []byte) error {
	key := b.key(name)
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
