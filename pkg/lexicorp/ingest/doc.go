package ingest

import (
	"fmt"
	"strings"

	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

// Document is one fetched unit: a name for its corpus file and the raw
// example sentences to ingest.
type Document struct {
	Name      string
	Sentences []string
}

// Validate checks that the document can be stored under its name
func (d *Document) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("%w: document name is required", internalerr.ErrInvalidInput)
	}
	if name != d.Name || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: document name %q is not a single path segment", internalerr.ErrInvalidInput, d.Name)
	}
	return nil
}
