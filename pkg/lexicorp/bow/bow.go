// Package bow encodes filtered token sequences as sparse term-frequency
// vectors against a vocabulary snapshot.
package bow

import (
	"fmt"
	"sort"

	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// Entry is one nonzero (id, count) pair.
type Entry struct {
	ID    int
	Count int
}

// Vector is a sparse bag-of-words vector with ids ascending.
type Vector []Entry

// Equal reports whether two vectors hold the same pairs in the same order.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// UnknownTokenError reports a token with no id in the vocabulary used for
// encoding. It means the vocabulary was not updated before encoding.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %q: vocabulary not updated before encoding", e.Token)
}

// Unwrap lets callers match with errors.Is(err, internalerr.ErrUnknownToken).
func (e *UnknownTokenError) Unwrap() error { return internalerr.ErrUnknownToken }

// Encode counts the tokens in text and maps each distinct token to its id.
func Encode(text []string, v *vocabulary.Vocabulary) (Vector, error) {
	counts := make(map[int]int, len(text))
	for _, token := range text {
		id, ok := v.ID(token)
		if !ok {
			return nil, &UnknownTokenError{Token: token}
		}
		counts[id]++
	}

	vec := make(Vector, 0, len(counts))
	for id, n := range counts {
		vec = append(vec, Entry{ID: id, Count: n})
	}
	sort.Slice(vec, func(i, j int) bool {
		return vec[i].ID < vec[j].ID
	})
	return vec, nil
}

// EncodeAll encodes each text in order.
func EncodeAll(texts [][]string, v *vocabulary.Vocabulary) ([]Vector, error) {
	out := make([]Vector, 0, len(texts))
	for i, text := range texts {
		vec, err := Encode(text, v)
		if err != nil {
			return nil, fmt.Errorf("encode text %d: %w", i, err)
		}
		out = append(out, vec)
	}
	return out, nil
}
