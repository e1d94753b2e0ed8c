// Package docfile replays documents recorded as JSON lines, one
// {"name": ..., "sentences": [...]} object per line.
package docfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/lexicorp/pkg/lexicorp/ingest"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

type record struct {
	Name      string   `json:"name"`
	Sentences []string `json:"sentences"`
}

// Load reads every document from a JSONL file. Malformed lines are skipped
// with a warning.
func Load(path string, logger *zap.Logger) ([]ingest.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := Read(f, logger.With(zap.String("path", path)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docs, nil
}

// Read decodes documents from r.
func Read(r io.Reader, logger *zap.Logger) ([]ingest.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var docs []ingest.Document
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Warn("skipping malformed line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		docs = append(docs, ingest.Document{Name: rec.Name, Sentences: rec.Sentences})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no valid documents found", internalerr.ErrInvalidInput)
	}
	return docs, nil
}

// Replay hands out loaded documents one per FetchDocument call.
type Replay struct {
	docs []ingest.Document
	next int
}

// NewReplay creates a Replay over docs.
func NewReplay(docs []ingest.Document) *Replay {
	return &Replay{docs: docs}
}

// Remaining reports how many documents have not been fetched yet.
func (r *Replay) Remaining() int {
	return len(r.docs) - r.next
}

// FetchDocument returns the next recorded document, or an error wrapping
// internalerr.ErrNotFound once the recording is exhausted.
func (r *Replay) FetchDocument(ctx context.Context) (ingest.Document, error) {
	if err := ctx.Err(); err != nil {
		return ingest.Document{}, err
	}
	if r.next >= len(r.docs) {
		return ingest.Document{}, fmt.Errorf("%w: replay exhausted after %d documents", internalerr.ErrNotFound, len(r.docs))
	}
	doc := r.docs[r.next]
	r.next++
	return doc, nil
}
