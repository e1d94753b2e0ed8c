package stoplist

import (
	"math"
	"sort"

	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// Manager tracks the active stopword set and the reason each word is in it
type Manager struct {
	stops map[string]Reason
}

// Reason explains why a token is a stopword
type Reason struct {
	HighDF    bool    // appears in most documents
	DFPercent float64 // share of documents containing the token
	IDF       float64 // inverse document frequency
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]Reason, len(initialStops))
	for _, s := range initialStops {
		stops[s] = Reason{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// All returns all stopwords in sorted order
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Stats holds document-frequency statistics for one token
type Stats struct {
	Token     string
	DF        int64
	DFPercent float64
	IDF       float64
}

// FromVocabulary computes Stats for every token in v, in id order.
func FromVocabulary(v *vocabulary.Vocabulary) []Stats {
	docs := v.Counts().Docs
	entries := v.Entries()
	stats := make([]Stats, 0, len(entries))
	for _, e := range entries {
		s := Stats{Token: e.Token, DF: e.DocFreq}
		if docs > 0 {
			s.DFPercent = 100 * float64(e.DocFreq) / float64(docs)
			s.IDF = math.Log(float64(docs) / float64(1+e.DocFreq))
		}
		stats = append(stats, s)
	}
	return stats
}

// Candidate represents a candidate stopword
type Candidate struct {
	Token  string
	Reason Reason
	Score  float64 // confidence score
}

// Thresholds defines criteria for stopword identification
type Thresholds struct {
	DFPercent float64 // e.g., 60% - appears in 60% of documents
	MinDocs   int64   // ignore statistics gathered over fewer documents
}

// DefaultThresholds returns sensible default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFPercent: 60.0,
		MinDocs:   10,
	}
}

// SuggestCandidates suggests tokens that should be stopwords, highest score
// first. docs is the number of documents the statistics were gathered over.
func (m *Manager) SuggestCandidates(stats []Stats, docs int64, thresholds Thresholds) []Candidate {
	if docs < thresholds.MinDocs {
		return nil
	}

	var candidates []Candidate
	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue // already a stopword
		}
		if s.DFPercent <= thresholds.DFPercent {
			continue
		}
		candidates = append(candidates, Candidate{
			Token: s.Token,
			Reason: Reason{
				HighDF:    true,
				DFPercent: s.DFPercent,
				IDF:       s.IDF,
			},
			Score: s.DFPercent / 100.0,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
