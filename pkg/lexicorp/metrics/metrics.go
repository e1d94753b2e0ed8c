// Package metrics defines the Prometheus collectors for ingestion runs.
// A CLI run is short-lived, so collectors are usually pushed to a
// Pushgateway at the end of the process instead of being scraped.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "lexicorp"

// Stage names used as label values on RunFailures.
const (
	StageFetch         = "fetch"
	StageTokenize      = "tokenize"
	StageLoadVocab     = "load_vocab"
	StageEncode        = "encode"
	StagePersistVocab  = "persist_vocab"
	StagePersistCorpus = "persist_corpus"
)

// Metrics holds all collectors for the ingestion engine.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	RunFailures        *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	SentencesProcessed prometheus.Counter
	TokensDropped      prometheus.Counter
	NewTokens          prometheus.Counter
	VocabularySize     prometheus.Gauge
	CorpusNNZ          prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_runs_total",
				Help:      "Ingestion runs by outcome (success, failure) and vocabulary path (build, extend).",
			},
			[]string{"outcome", "path"},
		),
		RunFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_failures_total",
				Help:      "Failed ingestion runs by the stage that failed.",
			},
			[]string{"stage"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_run_duration_seconds",
				Help:      "Duration of ingestion runs after fetch.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		SentencesProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sentences_processed_total",
				Help:      "Raw sentences tokenized.",
			},
		),
		TokensDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_dropped_total",
				Help:      "Token occurrences removed as batch hapaxes.",
			},
		),
		NewTokens: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vocabulary_new_tokens_total",
				Help:      "Tokens added to the vocabulary.",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "vocabulary_size",
				Help:      "Number of ids assigned in the saved vocabulary.",
			},
		),
		CorpusNNZ: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "corpus_last_nnz",
				Help:      "Nonzero entries in the last written corpus unit.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.RunsTotal,
			m.RunFailures,
			m.RunDuration,
			m.SentencesProcessed,
			m.TokensDropped,
			m.NewTokens,
			m.VocabularySize,
			m.CorpusNNZ,
		)
	}
	return m
}

// Push sends everything gathered by g to a Pushgateway under job.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
