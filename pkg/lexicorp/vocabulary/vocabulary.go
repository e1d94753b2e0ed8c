// Package vocabulary maintains the token ↔ id mapping that bag-of-words
// vectors are expressed against.
//
// Ids are assigned in first-seen order, are never removed and are never
// reused. A Vocabulary is treated as a value: Build and Extend return a new
// Vocabulary and leave their input untouched.
package vocabulary

import (
	"fmt"

	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

// Vocabulary maps tokens to dense integer ids
type Vocabulary struct {
	tokens []string       // id -> token
	ids    map[string]int // token -> id
	counts Counter
}

// Entry is one persisted vocabulary row
type Entry struct {
	ID       int
	Token    string
	DocFreq  int64
	CollFreq int64
}

// New creates an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

// Build assigns fresh sequential ids to every distinct token in texts, in
// order of first appearance.
func Build(texts [][]string) *Vocabulary {
	return Extend(New(), texts)
}

// Extend returns a copy of existing with every unseen token in texts given
// the next unused id. Frequencies are updated for old and new tokens alike,
// so repeating the same texts raises counts without touching ids.
func Extend(existing *Vocabulary, texts [][]string) *Vocabulary {
	if existing == nil {
		existing = New()
	}
	v := existing.Clone()
	for _, text := range texts {
		v.addDocument(text)
	}
	return v
}

func (v *Vocabulary) addDocument(text []string) {
	occurrences := make(map[int]int64, len(text))
	for _, token := range text {
		id, ok := v.ids[token]
		if !ok {
			id = len(v.tokens)
			v.tokens = append(v.tokens, token)
			v.ids[token] = id
		}
		occurrences[id]++
	}
	v.counts.AddDocument(occurrences, len(text))
}

// Clone returns a deep copy
func (v *Vocabulary) Clone() *Vocabulary {
	out := &Vocabulary{
		tokens: append([]string(nil), v.tokens...),
		ids:    make(map[string]int, len(v.ids)),
		counts: v.counts.clone(),
	}
	for tok, id := range v.ids {
		out.ids[tok] = id
	}
	return out
}

// ID returns the id assigned to token.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Token returns the token with the given id.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Len returns the number of ids assigned so far; the next new token gets this id.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// DocFreq returns how many documents contained the token with the given id.
func (v *Vocabulary) DocFreq(id int) int64 {
	return v.counts.DocFreq(id)
}

// CollFreq returns how many times the token with the given id occurred.
func (v *Vocabulary) CollFreq(id int) int64 {
	return v.counts.CollFreq(id)
}

// Counts returns the corpus-wide counters.
func (v *Vocabulary) Counts() Counts {
	return v.counts.Counts
}

// Entries returns every token in id order.
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, len(v.tokens))
	for id, tok := range v.tokens {
		out[id] = Entry{
			ID:       id,
			Token:    tok,
			DocFreq:  v.counts.DocFreq(id),
			CollFreq: v.counts.CollFreq(id),
		}
	}
	return out
}

// Restore rebuilds a vocabulary from persisted rows. Entries must carry the
// ids 0..n-1 exactly once (in any order) with distinct, non-empty tokens.
func Restore(counts Counts, entries []Entry) (*Vocabulary, error) {
	v := &Vocabulary{
		tokens: make([]string, len(entries)),
		ids:    make(map[string]int, len(entries)),
		counts: Counter{Counts: counts},
	}
	v.counts.grow(len(entries))

	seen := make([]bool, len(entries))
	for _, e := range entries {
		if e.ID < 0 || e.ID >= len(entries) {
			return nil, fmt.Errorf("%w: id %d out of range [0,%d)", internalerr.ErrCorrupt, e.ID, len(entries))
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", internalerr.ErrCorrupt, e.ID)
		}
		if e.Token == "" {
			return nil, fmt.Errorf("%w: empty token for id %d", internalerr.ErrCorrupt, e.ID)
		}
		if _, dup := v.ids[e.Token]; dup {
			return nil, fmt.Errorf("%w: duplicate token %q", internalerr.ErrCorrupt, e.Token)
		}
		if e.DocFreq < 0 || e.CollFreq < 0 {
			return nil, fmt.Errorf("%w: negative frequency for token %q", internalerr.ErrCorrupt, e.Token)
		}
		seen[e.ID] = true
		v.tokens[e.ID] = e.Token
		v.ids[e.Token] = e.ID
		v.counts.df[e.ID] = e.DocFreq
		v.counts.cf[e.ID] = e.CollFreq
	}
	return v, nil
}
