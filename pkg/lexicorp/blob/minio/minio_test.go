package minio

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
)

func TestKeyJoinsPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "trr.dict", "trr.dict"},
		{"lexicorp/", "trr.dict", "lexicorp/trr.dict"},
		{"lexicorp", "corpora/run_1.mm", "lexicorp/corpora/run_1.mm"},
	}
	for _, tt := range tests {
		b := New(nil, "bucket", tt.prefix)
		if got := b.key(tt.name); got != tt.want {
			t.Errorf("key(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}) {
		t.Error("NoSuchKey should be not found")
	}
	if isNotFound(minio.ErrorResponse{Code: "AccessDenied"}) {
		t.Error("AccessDenied should not be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Error("plain error should not be not found")
	}
}

// TestBucketIntegration requires a running MinIO instance addressed by
// LEXICORP_TEST_MINIO_ENDPOINT (credentials minioadmin/minioadmin).
func TestBucketIntegration(t *testing.T) {
	endpoint := os.Getenv("LEXICORP_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("LEXICORP_TEST_MINIO_ENDPOINT not set")
	}
	ctx := context.Background()

	b, err := Dial(Options{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "lexicorp-test",
		Prefix:    "it/",
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			t.Fatalf("MakeBucket: %v", err)
		}
	}

	if _, err := b.Get(ctx, "does-not-exist"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := b.Put(ctx, "unit.mm", []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := b.Get(ctx, "unit.mm")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get = %q, want payload", got)
	}
}
