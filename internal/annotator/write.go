package annotator

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic replaces path with content through a temporary file in the same
// directory, keeping the original permission bits.
func writeAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".resannotate-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return fail(fmt.Errorf("chmod temp file: %w", err))
	}
	if _, err := tmp.Write(content); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
