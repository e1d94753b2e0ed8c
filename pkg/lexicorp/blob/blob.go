// Package blob provides the named-object storage that vocabulary and corpus
// units are persisted to.
package blob

import (
	"context"
	"os"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Bucket stores whole objects by name.
type Bucket interface {
	// Get returns the full contents of the named object.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put replaces the named object. A reader never observes a partial object:
	// either the previous contents or the new contents are visible.
	Put(ctx context.Context, name string, data []byte) error
}
