package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "layerlint.yaml"
	ConfigFileNameAlt = "layerlint.yml"
)

// LoadFromDir loads the config file in dir. A directory without one yields
// a nil config and no error.
func LoadFromDir(dir string) (*ProjectConfig, error) {
	if path := FindConfigFile(dir); path != "" {
		return LoadFile(path)
	}
	return nil, nil
}

// LoadFile loads a ProjectConfig from a config file with defaults applied.
func LoadFile(path string) (*ProjectConfig, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := Unmarshal(k, "", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// FindProjectRoot returns the nearest of startDir and its ancestors, up to
// maxLevels directories, that holds a config file, or "".
func FindProjectRoot(startDir string, maxLevels int) string {
	for dir, level := startDir, 0; level < maxLevels; level++ {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
