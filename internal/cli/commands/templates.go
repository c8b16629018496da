package commands

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// diskNames maps embedded file names to the names written by init. Dotfiles
// are stored without the dot so tooling does not treat them as live config.
var diskNames = map[string]string{
	"gitignore": ".gitignore",
}

func templateRoot(name string) (fs.FS, error) {
	return fs.Sub(templateFS, path.Join("templates", name))
}

// listTemplateFiles returns the embedded files of a template as
// slash-separated paths, relative to the template and sorted.
func listTemplateFiles(name string) ([]string, error) {
	root, err := templateRoot(name)
	if err != nil {
		return nil, err
	}
	var files []string
	err = fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, p)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unknown template %q: %w", name, err)
	}
	slices.Sort(files)
	return files, nil
}

// diskPath returns the slash-separated path init writes for an embedded file.
func diskPath(p string) string {
	if renamed, ok := diskNames[path.Base(p)]; ok {
		return path.Join(path.Dir(p), renamed)
	}
	return p
}

// copyTemplate writes a template into targetDir. Existing files are kept
// unless force is set.
func copyTemplate(name, targetDir string, force bool) error {
	root, err := templateRoot(name)
	if err != nil {
		return err
	}
	files, err := listTemplateFiles(name)
	if err != nil {
		return err
	}

	for _, f := range files {
		target := filepath.Join(targetDir, filepath.FromSlash(diskPath(f)))
		if _, err := os.Stat(target); err == nil && !force {
			continue
		}
		content, err := fs.ReadFile(root, f)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0o600); err != nil {
			return err
		}
	}
	return nil
}

// groupTemplateFiles splits template files into configuration and sources,
// using their on-disk names.
func groupTemplateFiles(files []string) map[string][]string {
	groups := map[string][]string{"config": {}, "src": {}}
	for _, f := range files {
		key := "config"
		if strings.HasPrefix(f, "src/") {
			key = "src"
		}
		groups[key] = append(groups[key], diskPath(f))
	}
	return groups
}
