package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic streams write's output into a temporary file beside path and
// renames it over path once everything has been flushed and synced.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return fail(err)
	}

	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("export: flush %s: %w", path, err))
	}

	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("export: sync %s: %w", path, err))
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: close %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: chmod %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: rename into %s: %w", path, err)
	}

	return nil
}
