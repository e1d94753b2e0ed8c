package store

import (
	"context"

	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// VocabularyStore persists the single vocabulary of a deployment.
type VocabularyStore interface {
	// Load returns the persisted vocabulary. The bool is false, with a nil
	// error, when nothing has been saved yet.
	Load(ctx context.Context) (*vocabulary.Vocabulary, bool, error)

	// Save replaces the persisted vocabulary. A failed Save leaves the
	// previously saved vocabulary loadable.
	Save(ctx context.Context, v *vocabulary.Vocabulary) error

	Close() error
}
