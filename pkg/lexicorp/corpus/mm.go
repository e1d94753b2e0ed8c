package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/lexicorp/pkg/lexicorp/bow"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

// Header is the banner line written at the top of every corpus unit.
const Header = "%%MatrixMarket matrix coordinate integer general"

// MaxRows bounds the row count of a unit. Decode rejects larger headers
// before allocating rows.
const MaxRows = 1 << 24

// Corpus is a decoded corpus unit: one sparse vector per document row.
type Corpus struct {
	Vectors  []bow.Vector
	NumTerms int // column count: max id + 1 at write time
	NumNNZ   int
}

// Len returns the number of documents (rows).
func (c *Corpus) Len() int {
	return len(c.Vectors)
}

// Equal reports whether both corpora hold the same vectors and dimensions.
func (c *Corpus) Equal(other *Corpus) bool {
	if c.NumTerms != other.NumTerms || c.NumNNZ != other.NumNNZ || len(c.Vectors) != len(other.Vectors) {
		return false
	}
	for i := range c.Vectors {
		if !c.Vectors[i].Equal(other.Vectors[i]) {
			return false
		}
	}
	return true
}

// FromVectors computes the dimensions of a set of vectors.
func FromVectors(vectors []bow.Vector) *Corpus {
	c := &Corpus{Vectors: vectors}
	for _, vec := range vectors {
		c.NumNNZ += len(vec)
		for _, e := range vec {
			if e.ID+1 > c.NumTerms {
				c.NumTerms = e.ID + 1
			}
		}
	}
	return c
}

// Encode writes vectors in Matrix Market coordinate format. Rows and
// columns are 1-indexed; triples are ordered by row, then column.
func Encode(w io.Writer, vectors []bow.Vector) error {
	c := FromVectors(vectors)
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Header)
	fmt.Fprintf(bw, "%d %d %d\n", c.Len(), c.NumTerms, c.NumNNZ)
	for row, vec := range vectors {
		for _, e := range vec {
			fmt.Fprintf(bw, "%d %d %d\n", row+1, e.ID+1, e.Count)
		}
	}
	return bw.Flush()
}

// Decode reads a Matrix Market coordinate matrix. Both integer and real
// fields are accepted as long as every value is a positive whole number.
func Decode(r io.Reader) (*Corpus, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	bannerRead := false
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if bannerRead && strings.HasPrefix(line, "%") {
				continue
			}
			bannerRead = true
			return line, true
		}
		return "", false
	}

	banner, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, corruptf("empty corpus unit")
	}
	if err := checkBanner(banner); err != nil {
		return nil, err
	}

	sizeLine, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, corruptf("missing size line")
	}
	dims, err := parseInts(sizeLine, 3)
	if err != nil {
		return nil, corruptf("line %d: size line: %v", lineNo, err)
	}
	rows, cols, nnz := dims[0], dims[1], dims[2]
	if rows < 0 || cols < 0 || nnz < 0 {
		return nil, corruptf("line %d: negative dimensions", lineNo)
	}
	if rows > MaxRows {
		return nil, corruptf("line %d: %d rows exceeds limit of %d", lineNo, rows, MaxRows)
	}

	vectors := make([]bow.Vector, rows)
	for i := range vectors {
		vectors[i] = bow.Vector{}
	}

	seen := 0
	for {
		line, ok := next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, corruptf("line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		idx, err := parseInts(fields[0]+" "+fields[1], 2)
		if err != nil {
			return nil, corruptf("line %d: %v", lineNo, err)
		}
		row, col := idx[0], idx[1]
		if row < 1 || row > rows || col < 1 || col > cols {
			return nil, corruptf("line %d: entry (%d,%d) outside %dx%d", lineNo, row, col, rows, cols)
		}
		count, err := parseCount(fields[2])
		if err != nil {
			return nil, corruptf("line %d: %v", lineNo, err)
		}
		vectors[row-1] = append(vectors[row-1], bow.Entry{ID: col - 1, Count: count})
		seen++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if seen != nnz {
		return nil, corruptf("header declares %d entries, found %d", nnz, seen)
	}

	for row, vec := range vectors {
		sort.SliceStable(vec, func(i, j int) bool { return vec[i].ID < vec[j].ID })
		for i := 1; i < len(vec); i++ {
			if vec[i].ID == vec[i-1].ID {
				return nil, corruptf("duplicate entry (%d,%d)", row+1, vec[i].ID+1)
			}
		}
	}

	return &Corpus{Vectors: vectors, NumTerms: cols, NumNNZ: nnz}, nil
}

func checkBanner(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) != 5 || fields[0] != "%%matrixmarket" {
		return corruptf("bad banner %q", line)
	}
	if fields[1] != "matrix" || fields[2] != "coordinate" {
		return corruptf("unsupported matrix layout %q", line)
	}
	if fields[3] != "integer" && fields[3] != "real" {
		return corruptf("unsupported field type %q", fields[3])
	}
	if fields[4] != "general" {
		return corruptf("unsupported symmetry %q", fields[4])
	}
	return nil
}

func parseInts(s string, n int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d integers, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func parseCount(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		if v <= 0 {
			return 0, fmt.Errorf("non-positive count %d", v)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", s)
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("value %q is not a positive whole count", s)
	}
	return int(f), nil
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: matrix market: %s", internalerr.ErrCorrupt, fmt.Sprintf(format, args...))
}
