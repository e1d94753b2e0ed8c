// Package config loads lexicorp configuration from a YAML file with
// LEXICORP_* environment-variable overrides, and builds the components an
// ingestion run needs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexicorp/pkg/lexicorp/corpus"
	"github.com/cognicore/lexicorp/pkg/lexicorp/ingest"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Vocabulary backends.
const (
	VocabularyFile   = "file"
	VocabularySQLite = "sqlite"
)

// Config is the top-level configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Senses     SensesConfig     `yaml:"senses"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// StorageConfig selects where vocabulary and corpus units live.
type StorageConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	MinIO   MinIOConfig `yaml:"minio"`
}

// MinIOConfig holds S3-compatible object store settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// VocabularyConfig selects the vocabulary backend. Name is the object name
// used by the file backend.
type VocabularyConfig struct {
	Backend    string `yaml:"backend"`
	Name       string `yaml:"name"`
	SQLitePath string `yaml:"sqlitePath"`
}

// CorpusConfig controls corpus unit layout.
type CorpusConfig struct {
	Prefix      string `yaml:"prefix"`
	Compression string `yaml:"compression"`
}

// TokenizerConfig holds the stopword list. StoplistPath, when set, replaces
// Stopwords with the terms of a YAML stoplist file.
type TokenizerConfig struct {
	Stopwords    []string `yaml:"stopwords"`
	StoplistPath string   `yaml:"stoplistPath"`
}

// SensesConfig configures the senses API client.
type SensesConfig struct {
	BaseURL   string        `yaml:"baseURL"`
	RateLimit float64       `yaml:"rateLimit"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LoggingConfig selects the zap preset and level.
type LoggingConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// MetricsConfig controls pushing run metrics to a Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayURL"`
	Job            string `yaml:"job"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file %s: %w", internalerr.ErrInvalidConfig, path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set: local storage
// under ./resources laid out as dictionaries/ and corpora/.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: StorageLocal,
			Dir:     "resources",
		},
		Vocabulary: VocabularyConfig{
			Backend: VocabularyFile,
			Name:    "dictionaries/trr.dict",
		},
		Corpus: CorpusConfig{
			Prefix:      "corpora",
			Compression: string(corpus.CompressionNone),
		},
		Tokenizer: TokenizerConfig{
			Stopwords: append([]string(nil), ingest.DefaultStopwords...),
		},
		Senses: SensesConfig{
			RateLimit: 2,
			Burst:     1,
			Timeout:   15 * time.Second,
		},
		Logging: LoggingConfig{
			Env:   "prod",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Job: "lexicorp_ingest",
		},
	}
}

// Validate reports the first invalid setting, wrapped in
// internalerr.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%w: storage.dir is required for the local backend", internalerr.ErrInvalidConfig)
		}
	case StorageMinIO:
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "" {
			return fmt.Errorf("%w: storage.minio.endpoint and storage.minio.bucket are required", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", internalerr.ErrInvalidConfig, c.Storage.Backend)
	}

	switch c.Vocabulary.Backend {
	case VocabularyFile:
		if c.Vocabulary.Name == "" {
			return fmt.Errorf("%w: vocabulary.name is required", internalerr.ErrInvalidConfig)
		}
	case VocabularySQLite:
		if c.Vocabulary.SQLitePath == "" && c.Storage.Backend != StorageLocal {
			return fmt.Errorf("%w: vocabulary.sqlitePath is required unless storage is local", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown vocabulary backend %q", internalerr.ErrInvalidConfig, c.Vocabulary.Backend)
	}

	if _, err := corpus.ParseCompression(c.Corpus.Compression); err != nil {
		return err
	}
	if c.Senses.RateLimit < 0 {
		return fmt.Errorf("%w: senses.rateLimit must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// applyEnvOverrides reads LEXICORP_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEXICORP_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("LEXICORP_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("LEXICORP_MINIO_ENDPOINT"); v != "" {
		cfg.Storage.MinIO.Endpoint = v
	}
	if v := os.Getenv("LEXICORP_MINIO_ACCESS_KEY"); v != "" {
		cfg.Storage.MinIO.AccessKey = v
	}
	if v := os.Getenv("LEXICORP_MINIO_SECRET_KEY"); v != "" {
		cfg.Storage.MinIO.SecretKey = v
	}
	if v := os.Getenv("LEXICORP_MINIO_BUCKET"); v != "" {
		cfg.Storage.MinIO.Bucket = v
	}
	if v := os.Getenv("LEXICORP_MINIO_PREFIX"); v != "" {
		cfg.Storage.MinIO.Prefix = v
	}
	if v := os.Getenv("LEXICORP_MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.MinIO.UseSSL = b
		}
	}
	if v := os.Getenv("LEXICORP_VOCABULARY_BACKEND"); v != "" {
		cfg.Vocabulary.Backend = v
	}
	if v := os.Getenv("LEXICORP_VOCABULARY_NAME"); v != "" {
		cfg.Vocabulary.Name = v
	}
	if v := os.Getenv("LEXICORP_VOCABULARY_SQLITE_PATH"); v != "" {
		cfg.Vocabulary.SQLitePath = v
	}
	if v := os.Getenv("LEXICORP_CORPUS_COMPRESSION"); v != "" {
		cfg.Corpus.Compression = v
	}
	if v := os.Getenv("LEXICORP_CORPUS_PREFIX"); v != "" {
		cfg.Corpus.Prefix = v
	}
	if v := os.Getenv("LEXICORP_TOKENIZER_STOPWORDS"); v != "" {
		cfg.Tokenizer.Stopwords = strings.Split(v, ",")
	}
	if v := os.Getenv("LEXICORP_SENSES_URL"); v != "" {
		cfg.Senses.BaseURL = v
	}
	if v := os.Getenv("LEXICORP_SENSES_RATE_LIMIT"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Senses.RateLimit = r
		}
	}
	if v := os.Getenv("LEXICORP_SENSES_BURST"); v != "" {
		if b, err := strconv.Atoi(v); err == nil {
			cfg.Senses.Burst = b
		}
	}
	if v := os.Getenv("LEXICORP_LOGGING_ENV"); v != "" {
		cfg.Logging.Env = v
	}
	if v := os.Getenv("LEXICORP_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEXICORP_METRICS_PUSHGATEWAY_URL"); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
}

// Stoplist represents the stopword list file
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: parsing stoplist %s: %w", internalerr.ErrInvalidConfig, path, err)
	}

	return &sl, nil
}
