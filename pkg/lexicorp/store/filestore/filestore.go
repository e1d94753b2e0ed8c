// Package filestore persists a vocabulary as a tab-separated text unit in a
// blob bucket.
//
// Format:
//
//	lexicorp-vocabulary 1
//	<docs> <positions> <nnz>
//	<id>\t<token>\t<docfreq>\t<collfreq>    (one line per token, id order)
package filestore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

const magic = "lexicorp-vocabulary 1"

// Store keeps one vocabulary under a fixed object name.
type Store struct {
	bucket blob.Bucket
	name   string
}

// New creates a store for the vocabulary object name in bucket.
func New(bucket blob.Bucket, name string) *Store {
	return &Store{bucket: bucket, name: name}
}

// Close implements store.VocabularyStore.
func (s *Store) Close() error { return nil }

// Load reads the vocabulary; a missing object means none was saved yet.
func (s *Store) Load(ctx context.Context) (*vocabulary.Vocabulary, bool, error) {
	data, err := s.bucket.Get(ctx, s.name)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read vocabulary %s: %w", internalerr.ErrPersistence, s.name, err)
	}

	v, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode vocabulary %s: %w", s.name, err)
	}
	return v, true, nil
}

// Save replaces the stored vocabulary.
func (s *Store) Save(ctx context.Context, v *vocabulary.Vocabulary) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return fmt.Errorf("%w: encode vocabulary %s: %w", internalerr.ErrPersistence, s.name, err)
	}
	if err := s.bucket.Put(ctx, s.name, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write vocabulary %s: %w", internalerr.ErrPersistence, s.name, err)
	}
	return nil
}

// Encode writes v in the text format.
func Encode(w io.Writer, v *vocabulary.Vocabulary) error {
	bw := bufio.NewWriter(w)
	c := v.Counts()
	fmt.Fprintln(bw, magic)
	fmt.Fprintf(bw, "%d %d %d\n", c.Docs, c.Positions, c.NNZ)
	for _, e := range v.Entries() {
		fmt.Fprintf(bw, "%d\t%s\t%d\t%d\n", e.ID, e.Token, e.DocFreq, e.CollFreq)
	}
	return bw.Flush()
}

// Decode parses the text format.
func Decode(r io.Reader) (*vocabulary.Vocabulary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, corruptf("empty vocabulary unit")
	}
	if scanner.Text() != magic {
		return nil, corruptf("bad header %q", scanner.Text())
	}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, corruptf("missing counters line")
	}
	counters := strings.Fields(scanner.Text())
	if len(counters) != 3 {
		return nil, corruptf("counters line: expected 3 fields, got %d", len(counters))
	}
	nums, err := parseInt64s(counters)
	if err != nil {
		return nil, corruptf("counters line: %v", err)
	}
	counts := vocabulary.Counts{Docs: nums[0], Positions: nums[1], NNZ: nums[2]}

	var entries []vocabulary.Entry
	lineNo := 2
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 4 {
			return nil, corruptf("line %d: expected 4 tab-separated fields, got %d", lineNo, len(parts))
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, corruptf("line %d: bad id %q", lineNo, parts[0])
		}
		freqs, err := parseInt64s(parts[2:])
		if err != nil {
			return nil, corruptf("line %d: %v", lineNo, err)
		}
		entries = append(entries, vocabulary.Entry{
			ID:       id,
			Token:    parts[1],
			DocFreq:  freqs[0],
			CollFreq: freqs[1],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return vocabulary.Restore(counts, entries)
}

func parseInt64s(fields []string) ([]int64, error) {
	out := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: vocabulary: %s", internalerr.ErrCorrupt, fmt.Sprintf(format, args...))
}
