package ingest

// Pipeline turns the raw sentences of one document into filtered texts:
// sentence → tokenization → batch hapax removal
type Pipeline struct {
	tokenizer *Tokenizer
}

// NewPipeline creates an ingestion pipeline around the given tokenizer
func NewPipeline(tokenizer *Tokenizer) *Pipeline {
	return &Pipeline{tokenizer: tokenizer}
}

// Processed represents a batch of sentences after filtering
type Processed struct {
	Texts   [][]string
	Tokens  int // tokens surviving stopword removal
	Dropped int // occurrences removed as batch hapaxes
}

// Process runs every sentence of a batch through the pipeline. The batch is
// the unit over which rarity is measured.
func (p *Pipeline) Process(sentences []string) Processed {
	// 1. Tokenize (lowercase, split, remove stopwords)
	texts := make([][]string, len(sentences))
	total := 0
	for i, s := range sentences {
		texts[i] = p.tokenizer.Tokenize(s)
		total += len(texts[i])
	}

	// 2. Batch-wide hapax removal
	filtered := RemoveRare(texts)
	kept := 0
	for _, text := range filtered {
		kept += len(text)
	}

	return Processed{
		Texts:   filtered,
		Tokens:  total,
		Dropped: total - kept,
	}
}
