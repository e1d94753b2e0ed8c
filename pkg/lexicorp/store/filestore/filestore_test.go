package filestore

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

type brokenBucket struct {
	*blob.MemoryBucket
}

func (b *brokenBucket) Put(context.Context, string, []byte) error {
	return errors.New("read-only filesystem")
}

func TestLoadAbsent(t *testing.T) {
	s := New(blob.NewMemoryBucket(), "trr.dict")

	v, found, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found || v != nil {
		t.Fatal("expected no vocabulary on first run")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(blob.NewLocalBucket(t.TempDir()), "trr.dict")

	orig := vocabulary.Build([][]string{{"b", "b"}, {"b", "c", "c"}})
	if err := s.Save(ctx, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, found, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("vocabulary should be found after Save")
	}
	if loaded.Counts() != orig.Counts() {
		t.Errorf("counts = %+v, want %+v", loaded.Counts(), orig.Counts())
	}
	want := orig.Entries()
	got := loaded.Entries()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := New(blob.NewMemoryBucket(), "trr.dict")

	v1 := vocabulary.Build([][]string{{"a"}})
	v2 := vocabulary.Extend(v1, [][]string{{"b", "c"}})
	if err := s.Save(ctx, v1); err != nil {
		t.Fatalf("Save v1: %v", err)
	}
	if err := s.Save(ctx, v2); err != nil {
		t.Fatalf("Save v2: %v", err)
	}

	loaded, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 3 {
		t.Errorf("Len = %d, want 3", loaded.Len())
	}
}

func TestEncodeFormat(t *testing.T) {
	var buf bytes.Buffer
	v := vocabulary.Build([][]string{{"b", "b"}, {"b", "c", "c"}})
	if err := Encode(&buf, v); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := "lexicorp-vocabulary 1\n2 5 3\n0\tb\t2\t3\n1\tc\t1\t2\n"
	if buf.String() != want {
		t.Errorf("Encode = %q, want %q", buf.String(), want)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad header", "gensim\n0 0 0\n"},
		{"missing counters", magic + "\n"},
		{"bad counters", magic + "\n1 x 2\n"},
		{"short row", magic + "\n1 1 1\n0\ta\t1\n"},
		{"bad id", magic + "\n1 1 1\nzero\ta\t1\t1\n"},
		{"id gap", magic + "\n1 2 2\n0\ta\t1\t1\n2\tb\t1\t1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, internalerr.ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestLoadCorruptIsError(t *testing.T) {
	ctx := context.Background()
	bucket := blob.NewMemoryBucket()
	if err := bucket.Put(ctx, "trr.dict", []byte("garbage")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, found, err := New(bucket, "trr.dict").Load(ctx)
	if err == nil || found {
		t.Fatalf("expected corrupt vocabulary to fail, got found=%v err=%v", found, err)
	}
}

func TestSaveFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	inner := blob.NewMemoryBucket()
	if err := New(inner, "trr.dict").Save(ctx, vocabulary.Build([][]string{{"a"}})); err != nil {
		t.Fatalf("Save: %v", err)
	}

	broken := New(&brokenBucket{MemoryBucket: inner}, "trr.dict")
	err := broken.Save(ctx, vocabulary.Build([][]string{{"x", "y"}}))
	if !errors.Is(err, internalerr.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	v, found, err := broken.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load: %v (found=%v)", err, found)
	}
	if v.Len() != 1 {
		t.Errorf("Len = %d, want previous vocabulary of 1", v.Len())
	}
}
