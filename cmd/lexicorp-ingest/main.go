package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cognicore/lexicorp/internal/docfile"
	logpkg "github.com/cognicore/lexicorp/internal/logger"
	"github.com/cognicore/lexicorp/pkg/lexicorp"
	"github.com/cognicore/lexicorp/pkg/lexicorp/config"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
	"github.com/cognicore/lexicorp/pkg/lexicorp/metrics"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional; defaults and LEXICORP_* env apply)")
		baseURL    = flag.String("url", "", "Senses API base URL (overrides senses.baseURL)")
		dataPath   = flag.String("data", "", "Replay documents from a JSONL file instead of the senses API")
		runs       = flag.Int("runs", 1, "Number of documents to ingest (0 with -data = all)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Senses.BaseURL = *baseURL
	}

	logger, err := logpkg.NewLogger(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.WithLogger(ctx, logger)

	if err := run(ctx, cfg, *dataPath, *runs); err != nil {
		logger.Error("ingest failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dataPath string, runs int) error {
	logger := logpkg.FromContext(ctx)
	loader := config.Loader{Config: cfg}
	components, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load components: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	engine := lexicorp.New(lexicorp.Options{
		Vocabulary: components.Vocabulary,
		Corpus:     components.Corpus,
		Pipeline:   components.Pipeline,
		Metrics:    m,
	})
	defer engine.Close()

	var fetcher lexicorp.Fetcher
	switch {
	case dataPath != "":
		docs, err := docfile.Load(dataPath, logger)
		if err != nil {
			return err
		}
		if runs <= 0 {
			runs = len(docs)
		}
		fetcher = docfile.NewReplay(docs)
	case components.Senses != nil:
		fetcher = components.Senses
	default:
		return fmt.Errorf("%w: either -url (senses.baseURL) or -data is required", internalerr.ErrInvalidConfig)
	}

	logger.Info("starting ingestion",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("vocabulary", cfg.Vocabulary.Backend),
		zap.String("compression", cfg.Corpus.Compression),
		zap.Int("runs", runs))

	done, runErr := ingestRuns(ctx, engine, fetcher, runs, logger)
	logger.Info("ingestion finished", zap.Int("documents", done))

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metrics.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, registry); err != nil {
			logger.Warn("metrics push failed", zap.Error(err))
		}
	}
	return runErr
}

// ingestRuns ingests up to runs documents and stops at the first failure.
// An exhausted replay ends the loop without error.
func ingestRuns(ctx context.Context, engine *lexicorp.Engine, fetcher lexicorp.Fetcher, runs int, logger *zap.Logger) (int, error) {
	done := 0
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		res, err := engine.Ingest(ctx, fetcher)
		if errors.Is(err, internalerr.ErrNotFound) {
			logger.Info("no more documents", zap.Int("requested", runs))
			return done, nil
		}
		if err != nil {
			return done, err
		}
		done++
		logger.Debug("run complete",
			zap.Int("run", i+1),
			zap.String("run_id", res.RunID),
			zap.String("document", res.Name))
	}
	return done, nil
}
