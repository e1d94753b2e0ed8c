package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/lexicorp/pkg/lexicorp/bow"
	"github.com/cognicore/lexicorp/pkg/lexicorp/vocabulary"
)

func localConfig(t *testing.T) *Config {
	t.Helper()
	cfg := Default()
	cfg.Storage.Dir = t.TempDir()
	return cfg
}

func TestLoaderDefaults(t *testing.T) {
	cfg := localConfig(t)
	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	if comp.Tokenizer == nil || comp.Pipeline == nil {
		t.Fatal("tokenizer and pipeline should be set")
	}
	if got := comp.Tokenizer.Tokenize("The cat and the dog"); !reflect.DeepEqual(got, []string{"cat", "dog"}) {
		t.Errorf("Tokenize = %v", got)
	}
	if comp.Senses != nil {
		t.Error("senses client should be nil without a base URL")
	}
	if got := comp.Corpus.ObjectName("x_1"); got != "x_1.mm" {
		t.Errorf("ObjectName = %q", got)
	}
}

func TestLoaderFileVocabularyLayout(t *testing.T) {
	cfg := localConfig(t)
	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	ctx := context.Background()
	if _, found, err := comp.Vocabulary.Load(ctx); err != nil || found {
		t.Fatalf("fresh store: found=%v err=%v", found, err)
	}
	v := vocabulary.Build([][]string{{"ice", "ice"}})
	if err := comp.Vocabulary.Save(ctx, v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := comp.Corpus.Write(ctx, "ice_1", []bow.Vector{{{ID: 0, Count: 2}}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for _, rel := range []string{"dictionaries/trr.dict", "corpora/ice_1.mm"} {
		if _, err := comp.Bucket.Get(ctx, rel); err != nil {
			t.Errorf("expected %s in storage dir: %v", rel, err)
		}
	}
}

func TestLoaderSQLite(t *testing.T) {
	cfg := localConfig(t)
	cfg.Vocabulary.Backend = VocabularySQLite
	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	ctx := context.Background()
	if err := comp.Vocabulary.Save(ctx, vocabulary.Build([][]string{{"flow"}})); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Storage.Dir, "vocabulary.db")); err != nil {
		t.Fatalf("expected sqlite file in storage dir: %v", err)
	}
	v, found, err := comp.Vocabulary.Load(ctx)
	if err != nil || !found || v.Len() != 1 {
		t.Fatalf("Load: v=%v found=%v err=%v", v, found, err)
	}
}

func TestLoaderStoplistFile(t *testing.T) {
	cfg := localConfig(t)
	cfg.Tokenizer.StoplistPath = writeFile(t, "stoplist.yaml", "terms:\n  - yo\n")

	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	if got := comp.Tokenizer.Tokenize("yo the beat"); !reflect.DeepEqual(got, []string{"the", "beat"}) {
		t.Errorf("Tokenize = %v", got)
	}
	if !reflect.DeepEqual(comp.Stopwords, []string{"yo"}) {
		t.Errorf("Stopwords = %v", comp.Stopwords)
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	cfg := localConfig(t)
	cfg.Tokenizer.StoplistPath = "/nonexistent/stoplist.yaml"

	if _, err := (&Loader{Config: cfg}).Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderSensesClient(t *testing.T) {
	cfg := localConfig(t)
	cfg.Senses.BaseURL = "https://senses.test"
	cfg.Senses.Timeout = 2 * time.Second

	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	if comp.Senses == nil {
		t.Fatal("senses client should be built")
	}
	if comp.Senses.HTTPClient.Timeout != 2*time.Second {
		t.Errorf("timeout = %v", comp.Senses.HTTPClient.Timeout)
	}
	if comp.Senses.Limiter == nil {
		t.Error("default rate limit should install a limiter")
	}
}

func TestNewSensesClientUnlimited(t *testing.T) {
	client := NewSensesClient(SensesConfig{BaseURL: "https://senses.test"})
	if client.Limiter != nil {
		t.Error("zero rate limit should mean no limiter")
	}
}
