package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// Store is an in-memory implementation of store.VocabularyStore for tests.
type Store struct {
	mu    sync.RWMutex
	vocab *vocabulary.Vocabulary
	saves int
}

// New creates a new, empty in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.VocabularyStore.
func (s *Store) Close() error { return nil }

// Load returns a copy of the last saved vocabulary.
func (s *Store) Load(ctx context.Context) (*vocabulary.Vocabulary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vocab == nil {
		return nil, false, nil
	}
	return s.vocab.Clone(), true, nil
}

// Save stores a copy of v.
func (s *Store) Save(ctx context.Context, v *vocabulary.Vocabulary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vocab = v.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
