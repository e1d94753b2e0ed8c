package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalBucket implements Bucket on a local directory.
type LocalBucket struct {
	root string
}

// NewLocalBucket creates a bucket rooted at the given directory. The
// directory is created on first write.
func NewLocalBucket(root string) *LocalBucket {
	return &LocalBucket{root: root}
}

// Get reads the named file.
func (b *LocalBucket) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.root, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Put writes to a temp file in the same directory, syncs it and renames it
// over the target, so a failed write leaves the previous file intact.
func (b *LocalBucket) Put(_ context.Context, name string, data []byte) (err error) {
	finalPath := filepath.Join(b.root, name)
	dir := filepath.Dir(finalPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(finalPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpPath := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err = os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming %s: %w", name, err)
	}
	return nil
}
