package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/cognicore/lexicorp/internal/docfile"
	"github.com/cognicore/lexicorp/pkg/lexicorp"
	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
	"github.com/cognicore/lexicorp/pkg/lexicorp/config"
	"github.com/cognicore/lexicorp/pkg/lexicorp/corpus"
	"github.com/cognicore/lexicorp/pkg/lexicorp/ingest"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/store/memstore"
)

func TestIngestRunsStopsWhenReplayExhausted(t *testing.T) {
	vocab := memstore.New()
	engine := lexicorp.New(lexicorp.Options{
		Vocabulary: vocab,
		Corpus:     corpus.NewStore(blob.NewMemoryBucket(), corpus.CompressionNone),
	})
	replay := docfile.NewReplay([]ingest.Document{
		{Name: "one", Sentences: []string{"ice ice"}},
		{Name: "two", Sentences: []string{"baby baby"}},
	})

	done, err := ingestRuns(context.Background(), engine, replay, 5, zap.NewNop())
	if err != nil {
		t.Fatalf("ingestRuns: %v", err)
	}
	if done != 2 {
		t.Errorf("done = %d, want 2", done)
	}
	if vocab.Saves() != 2 {
		t.Errorf("saves = %d, want 2", vocab.Saves())
	}
}

func TestIngestRunsStopsOnFailure(t *testing.T) {
	engine := lexicorp.New(lexicorp.Options{
		Vocabulary: memstore.New(),
		Corpus:     corpus.NewStore(blob.NewMemoryBucket(), corpus.CompressionNone),
	})
	calls := 0
	fetcher := lexicorp.FetcherFunc(func(context.Context) (ingest.Document, error) {
		calls++
		return ingest.Document{}, internalerr.ErrTransport
	})

	done, err := ingestRuns(context.Background(), engine, fetcher, 3, zap.NewNop())
	if !errors.Is(err, internalerr.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if done != 0 || calls != 1 {
		t.Errorf("done = %d, calls = %d", done, calls)
	}
}

func TestRunReplaysFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "docs.jsonl")
	content := `{"name":"ice_1","sentences":["ice ice baby","baby too cold"]}
{"name":"ice_2","sentences":["too cold too cold"]}
`
	if err := os.WriteFile(data, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Storage.Dir = filepath.Join(dir, "resources")

	if err := run(context.Background(), cfg, data, 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, rel := range []string{"dictionaries/trr.dict", "corpora/ice_1.mm", "corpora/ice_2.mm"} {
		if _, err := os.Stat(filepath.Join(cfg.Storage.Dir, rel)); err != nil {
			t.Errorf("expected %s: %v", rel, err)
		}
	}
}

func TestRunWithoutSource(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()

	if err := run(context.Background(), cfg, "", 1); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
