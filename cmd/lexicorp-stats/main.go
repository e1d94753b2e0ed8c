package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	logpkg "github.com/cognicore/lexicorp/internal/logger"
	"github.com/cognicore/lexicorp/pkg/lexicorp/config"
	"github.com/cognicore/lexicorp/pkg/lexicorp/corpus"
	"github.com/cognicore/lexicorp/pkg/lexicorp/stoplist"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// Report is the JSON document printed by lexicorp-stats.
type Report struct {
	Found      bool             `json:"found"`
	Stopwords  []string         `json:"stopwords"`
	Vocabulary *VocabularyStats `json:"vocabulary,omitempty"`
	TopTokens  []TokenStats     `json:"topTokens,omitempty"`
	Candidates []Candidate      `json:"stopwordCandidates,omitempty"`
	Corpus     *CorpusStats     `json:"corpus,omitempty"`
}

// VocabularyStats are the corpus-wide counters of the saved vocabulary.
type VocabularyStats struct {
	Size      int   `json:"size"`
	Docs      int64 `json:"docs"`
	Positions int64 `json:"positions"`
	NNZ       int64 `json:"nnz"`
}

// TokenStats describes one vocabulary entry.
type TokenStats struct {
	ID       int    `json:"id"`
	Token    string `json:"token"`
	DocFreq  int64  `json:"df"`
	CollFreq int64  `json:"cf"`
}

// Candidate is a suggested stopword.
type Candidate struct {
	Token     string  `json:"token"`
	DFPercent float64 `json:"dfPercent"`
	Score     float64 `json:"score"`
}

// CorpusStats is the shape of one corpus unit.
type CorpusStats struct {
	Name   string `json:"name"`
	Found  bool   `json:"found"`
	Rows   int    `json:"rows,omitempty"`
	Terms  int    `json:"terms,omitempty"`
	NNZ    int    `json:"nnz,omitempty"`
	Object string `json:"object"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional; defaults and LEXICORP_* env apply)")
		topK       = flag.Int("top", 20, "Number of tokens to list by document frequency")
		corpusName = flag.String("corpus", "", "Corpus unit to describe (optional)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	components, err := (&config.Loader{Config: cfg}).Load(ctx)
	if err != nil {
		logger.Fatal("load components", zap.Error(err))
	}
	defer components.Close()

	report, err := buildReport(ctx, components, *topK, *corpusName)
	if err != nil {
		logger.Fatal("build report", zap.Error(err))
	}
	if err := writeReport(os.Stdout, report); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
}

func buildReport(ctx context.Context, comp *config.Components, topK int, corpusName string) (*Report, error) {
	mgr := stoplist.NewManager(comp.Stopwords)
	report := &Report{Stopwords: mgr.All()}

	v, found, err := comp.Vocabulary.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	if found {
		report.Found = true
		counts := v.Counts()
		report.Vocabulary = &VocabularyStats{
			Size:      v.Len(),
			Docs:      counts.Docs,
			Positions: counts.Positions,
			NNZ:       counts.NNZ,
		}
		report.TopTokens = topTokens(v, topK)

		for _, c := range mgr.SuggestCandidates(stoplist.FromVocabulary(v), counts.Docs, stoplist.DefaultThresholds()) {
			report.Candidates = append(report.Candidates, Candidate{
				Token:     c.Token,
				DFPercent: c.Reason.DFPercent,
				Score:     c.Score,
			})
		}
	}

	if corpusName != "" {
		report.Corpus, err = describeCorpus(ctx, comp.Corpus, corpusName)
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

// topTokens returns the k entries with the highest document frequency,
// ties broken by id.
func topTokens(v *vocabulary.Vocabulary, k int) []TokenStats {
	entries := v.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DocFreq > entries[j].DocFreq
	})
	if k >= 0 && len(entries) > k {
		entries = entries[:k]
	}
	out := make([]TokenStats, len(entries))
	for i, e := range entries {
		out[i] = TokenStats{ID: e.ID, Token: e.Token, DocFreq: e.DocFreq, CollFreq: e.CollFreq}
	}
	return out
}

func describeCorpus(ctx context.Context, st *corpus.Store, name string) (*CorpusStats, error) {
	stats := &CorpusStats{Name: name, Object: st.ObjectName(name)}
	c, found, err := st.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", name, err)
	}
	if found {
		stats.Found = true
		stats.Rows = c.Len()
		stats.Terms = c.NumTerms
		stats.NNZ = c.NumNNZ
	}
	return stats, nil
}

func writeReport(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
