package config

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/cognicore/lexicorp/internal/senses"
	"github.com/cognicore/lexicorp/pkg/lexicorp/blob"
	blobminio "github.com/cognicore/lexicorp/pkg/lexicorp/blob/minio"
	"github.com/cognicore/lexicorp/pkg/lexicorp/corpus"
	"github.com/cognicore/lexicorp/pkg/lexicorp/ingest"
	"github.com/cognicore/lexicorp/pkg/lexicorp/store"
	"github.com/cognicore/lexicorp/pkg/lexicorp/store/filestore"
	"github.com/cognicore/lexicorp/pkg/lexicorp/store/sqlite"
)

// Loader constructs components from a Config
type Loader struct {
	Config *Config
}

// Components holds everything an ingestion run is wired from
type Components struct {
	// Stopwords is the resolved stoplist the Tokenizer was built with.
	Stopwords  []string
	Tokenizer  *ingest.Tokenizer
	Pipeline   *ingest.Pipeline
	Bucket     blob.Bucket
	Vocabulary store.VocabularyStore
	Corpus     *corpus.Store
	// Senses is nil when no senses base URL is configured.
	Senses *senses.Client
}

// Close releases the vocabulary store.
func (c *Components) Close() error {
	if c.Vocabulary == nil {
		return nil
	}
	return c.Vocabulary.Close()
}

// Load builds every component. A nil Config means Default().
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{}

	// Tokenizer
	stopwords := cfg.Tokenizer.Stopwords
	if cfg.Tokenizer.StoplistPath != "" {
		stoplist, err := LoadStoplist(cfg.Tokenizer.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stopwords = stoplist.Terms
	}
	comp.Stopwords = stopwords
	comp.Tokenizer = ingest.NewTokenizer(stopwords)
	comp.Pipeline = ingest.NewPipeline(comp.Tokenizer)

	// Storage
	bucket, err := openBucket(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	comp.Bucket = bucket

	compression, err := corpus.ParseCompression(cfg.Corpus.Compression)
	if err != nil {
		return nil, err
	}
	comp.Corpus = corpus.NewStore(blob.WithPrefix(bucket, cfg.Corpus.Prefix), compression)

	// Vocabulary
	switch cfg.Vocabulary.Backend {
	case VocabularySQLite:
		path := cfg.Vocabulary.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.Storage.Dir, "vocabulary.db")
		}
		st, err := sqlite.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite vocabulary %s: %w", path, err)
		}
		comp.Vocabulary = st
	default:
		comp.Vocabulary = filestore.New(bucket, cfg.Vocabulary.Name)
	}

	// Senses client
	if cfg.Senses.BaseURL != "" {
		comp.Senses = NewSensesClient(cfg.Senses)
	}

	return comp, nil
}

// NewSensesClient builds a senses client with the configured timeout and
// request pacing.
func NewSensesClient(cfg SensesConfig) *senses.Client {
	client := &senses.Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		client.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return client
}

func openBucket(cfg StorageConfig) (blob.Bucket, error) {
	switch cfg.Backend {
	case StorageMinIO:
		return blobminio.Dial(blobminio.Options{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
			Prefix:    cfg.MinIO.Prefix,
		})
	default:
		return blob.NewLocalBucket(cfg.Dir), nil
	}
}
