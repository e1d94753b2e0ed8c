// Package lexicorp grows a persisted vocabulary over a stream of documents
// and stores each document as a bag-of-words corpus unit expressed against
// that vocabulary.
package lexicorp

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	logpkg "github.com/cognicore/lexicorp/internal/logger"
	"github.com/cognicore/lexicorp/pkg/lexicorp/bow"
	"github.com/cognicore/lexicorp/pkg/lexicorp/corpus"
	"github.com/cognicore/lexicorp/pkg/lexicorp/ingest"
	"github.com/cognicore/lexicorp/pkg/lexicorp/metrics"
	"github.com/cognicore/lexicorp/pkg/lexicorp/store"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

// Fetcher supplies the next document to ingest.
type Fetcher interface {
	FetchDocument(ctx context.Context) (ingest.Document, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context) (ingest.Document, error)

// FetchDocument calls f.
func (f FetcherFunc) FetchDocument(ctx context.Context) (ingest.Document, error) {
	return f(ctx)
}

// Engine runs ingestion: tokenize and filter a document, grow the vocabulary,
// encode the document against it, then persist vocabulary and corpus unit.
type Engine struct {
	vocab    store.VocabularyStore
	corpus   *corpus.Store
	pipeline *ingest.Pipeline
	logger   *zap.Logger
	metrics  *metrics.Metrics
	entropy  *ulid.MonotonicEntropy
}

// Options configures an Engine
type Options struct {
	Vocabulary store.VocabularyStore
	Corpus     *corpus.Store
	// Pipeline defaults to the default stoplist when nil.
	Pipeline *ingest.Pipeline
	// Logger, when nil, is taken from the context of each call.
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	e := &Engine{
		vocab:    opts.Vocabulary,
		corpus:   opts.Corpus,
		pipeline: opts.Pipeline,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	if e.pipeline == nil {
		e.pipeline = ingest.NewPipeline(ingest.NewTokenizer(ingest.DefaultStopwords))
	}
	if e.metrics == nil {
		e.metrics = metrics.New(nil)
	}
	return e
}

// Close releases the vocabulary store
func (e *Engine) Close() error {
	return e.vocab.Close()
}

func (e *Engine) log(ctx context.Context) *zap.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logpkg.FromContext(ctx)
}

// Result summarizes one completed run
type Result struct {
	RunID          string
	Name           string
	Built          bool // vocabulary was created rather than extended
	NewTokens      int
	VocabularySize int
	Dropped        int // token occurrences removed as batch hapaxes
	Corpus         *corpus.Corpus
}

// Ingest fetches one document and ingests it. A fetch failure aborts the run
// before any store is touched.
func (e *Engine) Ingest(ctx context.Context, f Fetcher) (Result, error) {
	doc, err := f.FetchDocument(ctx)
	if err != nil {
		e.metrics.RunsTotal.WithLabelValues("failure", "none").Inc()
		e.metrics.RunFailures.WithLabelValues(metrics.StageFetch).Inc()
		e.log(ctx).Error("fetch failed", zap.Error(err))
		return Result{}, fmt.Errorf("fetch document: %w", err)
	}
	return e.IngestDocument(ctx, doc)
}

// IngestDocument runs every stage after fetch. The vocabulary is saved before
// the corpus unit is written, so a corpus failure leaves a saved vocabulary
// that already covers the document's tokens.
func (e *Engine) IngestDocument(ctx context.Context, doc ingest.Document) (Result, error) {
	start := time.Now()
	res := Result{
		RunID: ulid.MustNew(ulid.Timestamp(start), e.entropy).String(),
		Name:  doc.Name,
	}
	log := e.log(ctx).With(zap.String("run_id", res.RunID), zap.String("document", doc.Name))
	path := "none"

	fail := func(stage string, err error) (Result, error) {
		e.metrics.RunsTotal.WithLabelValues("failure", path).Inc()
		e.metrics.RunFailures.WithLabelValues(stage).Inc()
		log.Error("ingest failed", zap.String("stage", stage), zap.Error(err))
		return res, err
	}

	// 1. Tokenize and filter
	if err := doc.Validate(); err != nil {
		return fail(metrics.StageTokenize, err)
	}
	processed := e.pipeline.Process(doc.Sentences)
	res.Dropped = processed.Dropped
	e.metrics.SentencesProcessed.Add(float64(len(doc.Sentences)))
	e.metrics.TokensDropped.Add(float64(processed.Dropped))
	log.Debug("tokenized",
		zap.Int("sentences", len(doc.Sentences)),
		zap.Int("tokens", processed.Tokens),
		zap.Int("dropped", processed.Dropped))

	// 2. Load, then build or extend
	existing, found, err := e.vocab.Load(ctx)
	if err != nil {
		return fail(metrics.StageLoadVocab, fmt.Errorf("load vocabulary: %w", err))
	}
	var v *vocabulary.Vocabulary
	previous := 0
	if found {
		path = "extend"
		previous = existing.Len()
		v = vocabulary.Extend(existing, processed.Texts)
	} else {
		path = "build"
		v = vocabulary.Build(processed.Texts)
	}
	res.Built = !found
	res.NewTokens = v.Len() - previous
	res.VocabularySize = v.Len()
	log.Debug("vocabulary updated",
		zap.String("path", path),
		zap.Int("new_tokens", res.NewTokens),
		zap.Int("size", res.VocabularySize))

	// 3. Encode
	vectors, err := bow.EncodeAll(processed.Texts, v)
	if err != nil {
		return fail(metrics.StageEncode, fmt.Errorf("encode %s: %w", doc.Name, err))
	}

	// 4. Persist vocabulary, then corpus
	if err := e.vocab.Save(ctx, v); err != nil {
		return fail(metrics.StagePersistVocab, fmt.Errorf("save vocabulary: %w", err))
	}
	e.metrics.NewTokens.Add(float64(res.NewTokens))
	e.metrics.VocabularySize.Set(float64(res.VocabularySize))

	c, err := e.corpus.Write(ctx, doc.Name, vectors)
	if err != nil {
		return fail(metrics.StagePersistCorpus, fmt.Errorf("write corpus %s (vocabulary already saved): %w", doc.Name, err))
	}
	res.Corpus = c

	elapsed := time.Since(start)
	e.metrics.RunsTotal.WithLabelValues("success", path).Inc()
	e.metrics.RunDuration.Observe(elapsed.Seconds())
	e.metrics.CorpusNNZ.Set(float64(c.NumNNZ))
	log.Info("ingested",
		zap.String("path", path),
		zap.Int("new_tokens", res.NewTokens),
		zap.Int("vocabulary_size", res.VocabularySize),
		zap.Int("rows", c.Len()),
		zap.Int("nnz", c.NumNNZ),
		zap.Int("dropped", res.Dropped),
		zap.Duration("elapsed", elapsed))
	return res, nil
}
