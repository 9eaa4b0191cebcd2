package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	// PrimaryDir holds the classes of the main dex file.
	PrimaryDir = "smali"
	// SecondaryPrefix is followed by 2, 3, ... for each further dex file.
	SecondaryPrefix = "smali_classes"
)

// Walker discovers instruction files below a project directory.
type Walker struct{}

// NewWalker creates a Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path string
	Root string
}

// Roots returns the instruction tree roots of projectDir: smali (if present)
// followed by smali_classes2, smali_classes3, ... up to the first gap.
func (w *Walker) Roots(projectDir string) []string {
	var roots []string

	primary := filepath.Join(projectDir, PrimaryDir)
	if isDir(primary) {
		roots = append(roots, primary)
	}

	for i := 2; ; i++ {
		dir := filepath.Join(projectDir, SecondaryPrefix+strconv.Itoa(i))
		if !isDir(dir) {
			break
		}
		roots = append(roots, dir)
	}

	return roots
}

// Walk discovers all regular files under root in lexical order. Paths are
// absolute whatever form root was given in.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		entries = append(entries, FileEntry{Path: path, Root: root})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// WalkProject walks every root of projectDir in order. A root that vanishes
// between discovery and walking is skipped.
func (w *Walker) WalkProject(projectDir string) []FileEntry {
	var entries []FileEntry

	for _, root := range w.Roots(projectDir) {
		log.Info().Str("folder", filepath.Base(root)).Msg("Processing folder")

		found, err := w.Walk(root)
		if err != nil {
			log.Warn().Err(err).Str("root", root).Msg("Skipping folder")
			continue
		}
		entries = append(entries, found...)
	}

	return entries
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
