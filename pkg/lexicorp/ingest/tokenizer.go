package ingest

import (
	"strings"
)

// DefaultStopwords is the stoplist applied when no other list is configured.
var DefaultStopwords = []string{"for", "a", "of", "the", "and", "to", "in"}

// Tokenizer lowercases text, splits it on whitespace and drops stopwords.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize splits text into lowercase whitespace-delimited tokens, removing stopwords.
// Punctuation is left attached to the token it appears in.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if t.isStopword(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// RemoveRare drops every occurrence of a token that appears only once across
// the whole batch. Frequencies are batch-local: a token seen many times in
// earlier batches is still dropped if it is a hapax here.
func RemoveRare(texts [][]string) [][]string {
	frequency := make(map[string]int)
	for _, text := range texts {
		for _, token := range text {
			frequency[token]++
		}
	}

	out := make([][]string, len(texts))
	for i, text := range texts {
		kept := make([]string, 0, len(text))
		for _, token := range text {
			if frequency[token] > 1 {
				kept = append(kept, token)
			}
		}
		out[i] = kept
	}
	return out
}
