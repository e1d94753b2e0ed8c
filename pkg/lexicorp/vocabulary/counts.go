package vocabulary

// Counts holds corpus-wide counters accumulated over every document a
// vocabulary has seen.
type Counts struct {
	Docs      int64 // number of documents processed
	Positions int64 // number of token occurrences processed
	NNZ       int64 // sum over documents of distinct tokens per document
}

// Counter maintains per-id document and collection frequencies
type Counter struct {
	Counts
	df []int64 // document frequency per id
	cf []int64 // collection frequency per id
}

// grow makes room for ids up to n-1
func (c *Counter) grow(n int) {
	for len(c.df) < n {
		c.df = append(c.df, 0)
		c.cf = append(c.cf, 0)
	}
}

// AddDocument updates counts for a document given per-id occurrence counts
func (c *Counter) AddDocument(occurrences map[int]int64, length int) {
	c.Docs++
	c.Positions += int64(length)
	c.NNZ += int64(len(occurrences))

	for id, n := range occurrences {
		c.grow(id + 1)
		c.df[id]++
		c.cf[id] += n
	}
}

// DocFreq returns the document frequency for an id
func (c *Counter) DocFreq(id int) int64 {
	if id < 0 || id >= len(c.df) {
		return 0
	}
	return c.df[id]
}

// CollFreq returns the collection frequency for an id
func (c *Counter) CollFreq(id int) int64 {
	if id < 0 || id >= len(c.cf) {
		return 0
	}
	return c.cf[id]
}

func (c *Counter) clone() Counter {
	out := Counter{Counts: c.Counts}
	out.df = append([]int64(nil), c.df...)
	out.cf = append([]int64(nil), c.cf...)
	return out
}
