// Package discover finds the project files to classify.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/pattern"
)

// DefaultInclude matches every file.
var DefaultInclude = []string{"**"}

// DefaultIgnore skips VCS metadata, dependencies and build output.
var DefaultIgnore = []string{
	".git/**",
	"**/node_modules/**",
	"dist/**",
	"coverage/**",
	".layerlint/**",
}

// Options controls a discovery walk.
type Options struct {
	// Root is the project directory. Returned paths are relative to it.
	Root string
	// Include globs select files; empty means DefaultInclude.
	Include []string
	// Ignore globs drop files and prune directories.
	Ignore []string
	// Exclude lists root-relative paths that are never returned, whatever
	// Ignore says. See DatabaseFiles.
	Exclude []string
	// RoleOf assigns a role to each file. Nil leaves roles empty.
	RoleOf func(path string) string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Files walks Root and returns the matching files sorted by path.
func Files(ctx context.Context, opts Options) ([]core.SourceFile, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	if err := validate(include, opts.Ignore); err != nil {
		return nil, err
	}

	fsys := os.DirFS(opts.Root)
	seen := make(map[string]bool)
	for _, p := range opts.Exclude {
		seen[pattern.NormalizePath(p)] = true
	}
	var paths []string

	for _, glob := range include {
		err := doublestar.GlobWalk(fsys, cleanGlob(glob), func(p string, d fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p = pattern.NormalizePath(p)
			if seen[p] || Ignored(p, opts.Ignore) {
				return nil
			}
			seen[p] = true
			paths = append(paths, p)
			return nil
		}, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", glob, err)
		}
	}

	sort.Strings(paths)
	files := make([]core.SourceFile, len(paths))
	for i, p := range paths {
		files[i] = core.SourceFile{Path: p}
		if opts.RoleOf != nil {
			files[i].Role = opts.RoleOf(p)
		}
	}

	logger.Debug("discovered files", "root", opts.Root, "count", len(files))
	return files, nil
}

// sqliteSidecars are the suffixes of the files SQLite keeps beside a database.
var sqliteSidecars = []string{"", "-wal", "-shm", "-journal"}

// DatabaseFiles returns the SQLite database at dbPath and its sidecar
// files, as paths relative to root. It returns nil when dbPath is empty or
// lies outside root.
func DatabaseFiles(root, dbPath string) []string {
	if dbPath == "" {
		return nil
	}
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	if dbPath, err = filepath.Abs(dbPath); err != nil {
		return nil
	}
	rel, err := filepath.Rel(absRoot, dbPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	rel = filepath.ToSlash(rel)
	files := make([]string, len(sqliteSidecars))
	for i, suffix := range sqliteSidecars {
		files[i] = rel + suffix
	}
	return files
}

// Dirs returns Root and every directory below it that is not ignored, as
// paths relative to Root ("." for Root itself).
func Dirs(root string, ignore []string) ([]string, error) {
	dirs := []string{"."}
	err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || p == "." {
			return nil
		}
		if Ignored(p+"/", ignore) {
			return fs.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// Ignored reports whether a path matches one of the ignore globs. A path
// ending in "/" names a directory and matches globs ending in "/**".
func Ignored(p string, ignore []string) bool {
	isDir := strings.HasSuffix(p, "/")
	p = pattern.NormalizePath(p)
	for _, glob := range ignore {
		glob = cleanGlob(glob)
		if ok, _ := doublestar.Match(glob, p); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(glob, p+"/x"); ok && strings.HasSuffix(glob, "/**") {
				return true
			}
		}
	}
	return false
}

func validate(include, ignore []string) error {
	for _, glob := range append(append([]string{}, include...), ignore...) {
		if !doublestar.ValidatePattern(cleanGlob(glob)) {
			return fmt.Errorf("invalid glob %q", glob)
		}
	}
	return nil
}

func cleanGlob(glob string) string {
	glob = strings.TrimSpace(glob)
	glob = strings.TrimPrefix(glob, "./")
	return strings.TrimPrefix(glob, "/")
}
