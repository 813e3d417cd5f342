// Package files resolves the source files a run should process.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bennypowers.dev/tldedent/internal/collections"
	"bennypowers.dev/tldedent/internal/config"
	"bennypowers.dev/tldedent/internal/log"
	"github.com/bmatcuk/doublestar/v4"
)

// Collect returns the files under root matched by cfg, as sorted
// slash-separated paths relative to root.
func Collect(root string, cfg *config.Config) ([]string, error) {
	return collect(root, "", cfg)
}

// collect walks root and matches cfg against each path joined to prefix,
// the location of root relative to the project
func collect(root, prefix string, cfg *config.Config) ([]string, error) {
	fsys := os.DirFS(root)
	paths := collections.NewSet[string]()

	err := doublestar.GlobWalk(fsys, "**", func(rel string, d fs.DirEntry) error {
		if cfg.Matches(path.Join(prefix, rel)) {
			paths.Add(rel)
		}
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	log.Debug("Collected %d files under %s", len(paths), root)
	return paths.Sorted(), nil
}

// Expand turns command line arguments into file paths. Files are taken as
// given, directories are collected with cfg, matching paths relative to the
// working directory. No arguments means the current directory.
func Expand(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := collect(arg, projectPrefix(wd, arg), cfg)
		if err != nil {
			return nil, err
		}
		for _, rel := range found {
			paths = append(paths, filepath.Join(arg, filepath.FromSlash(rel)))
		}
	}
	return paths, nil
}

// projectPrefix returns dir relative to wd in slash form. Directories
// outside wd are matched as their own roots.
func projectPrefix(wd, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
