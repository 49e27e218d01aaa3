// Package discovery enumerates the input files of a load run.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix selects the JSON files of both datasets.
const DefaultSuffix = ".json"

// FindFiles walks root top-down and returns the absolute paths of every file
// whose name ends with suffix. Each directory's own files come before those of
// its subdirectories, both in name order. Hidden files are skipped but hidden
// directories are still descended. A missing root yields no files.
func FindFiles(root, suffix string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	var files []string
	walk(abs, suffix, &files)
	return files, nil
}

// walk collects dir's matching files, then recurses. Unreadable or missing
// directories contribute nothing.
func walk(dir, suffix string, files *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, name))
			continue
		}
		// AppleDouble "._x.json" and other dotfiles
		if strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasSuffix(name, suffix) {
			*files = append(*files, filepath.Join(dir, name))
		}
	}

	for _, sub := range subdirs {
		walk(sub, suffix, files)
	}
}
