package ingest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

func TestPipelineProcess(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer([]string{}))

	processed := pipeline.Process([]string{"a b b", "b c c"})

	want := [][]string{{"b", "b"}, {"b", "c", "c"}}
	if !reflect.DeepEqual(processed.Texts, want) {
		t.Errorf("Texts = %v, want %v", processed.Texts, want)
	}
	if processed.Tokens != 6 {
		t.Errorf("Tokens = %d, want 6", processed.Tokens)
	}
	if processed.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", processed.Dropped)
	}
}

func TestPipelineStopwordsBeforeRarity(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(DefaultStopwords))

	// "the" appears twice but is a stopword; "dog" appears once and is rare.
	processed := pipeline.Process([]string{"The cat and the dog", "a cat"})

	want := [][]string{{"cat"}, {"cat"}}
	if !reflect.DeepEqual(processed.Texts, want) {
		t.Errorf("Texts = %v, want %v", processed.Texts, want)
	}
}

func TestPipelineEmpty(t *testing.T) {
	pipeline := NewPipeline(NewTokenizer(DefaultStopwords))

	processed := pipeline.Process(nil)
	if len(processed.Texts) != 0 || processed.Tokens != 0 || processed.Dropped != 0 {
		t.Errorf("Expected empty result, got %+v", processed)
	}
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{"valid", Document{Name: "run-away_RUN_1"}, false},
		{"empty", Document{Name: ""}, true},
		{"blank", Document{Name: "   "}, true},
		{"padded", Document{Name: " run "}, true},
		{"slash", Document{Name: "a/b"}, true},
		{"backslash", Document{Name: `a\b`}, true},
		{"dotdot", Document{Name: ".."}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				if !errors.Is(err, internalerr.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
