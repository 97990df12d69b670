// This file provides bundle file helpers with atomic persistence.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// ReadFile reads a bundle file written by WriteFile. A missing file is
// reported with an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m := New()
	if _, err := m.ReadFrom(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

// WriteFile atomically writes m to path using the temp-file, fsync, rename
// pattern.
func WriteFile(path string, m types.Map) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bundle-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := m.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
