// Package graph loads the import graph manifest produced by an external
// resolver and turns it into a dag.Graph.
//
// A manifest is YAML (JSON is accepted, being valid YAML):
//
//	files:
//	  - path: src/actions/v1/createUser.ts
//	  - path: tests/unit/user.test.ts
//	    role: test
//	edges:
//	  - from: src/actions/v1/createUser.ts
//	    to: src/actions/v1/createUser.types.ts
package graph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/layerlint/internal/dag"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/pattern"
)

// ErrInvalidManifest is returned for manifests that cannot be used.
var ErrInvalidManifest = errors.New("invalid graph manifest")

// Manifest is a resolved import graph.
type Manifest struct {
	Files []core.SourceFile `yaml:"files"`
	Edges []core.ImportEdge `yaml:"edges"`
}

// Load reads and normalizes a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and normalizes a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.Normalize(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Normalize cleans every path, drops duplicate files (first wins) and adds
// edge endpoints missing from the file list. Edge order is preserved.
func (m *Manifest) Normalize() error {
	seen := make(map[string]bool, len(m.Files))
	files := make([]core.SourceFile, 0, len(m.Files))
	add := func(f core.SourceFile) {
		if seen[f.Path] {
			return
		}
		seen[f.Path] = true
		files = append(files, f)
	}

	for i, f := range m.Files {
		f.Path = pattern.NormalizePath(f.Path)
		if f.Path == "" {
			return fmt.Errorf("%w: files[%d]: empty path", ErrInvalidManifest, i)
		}
		add(f)
	}

	for i := range m.Edges {
		e := &m.Edges[i]
		e.From = pattern.NormalizePath(e.From)
		e.To = pattern.NormalizePath(e.To)
		if e.From == "" || e.To == "" {
			return fmt.Errorf("%w: edges[%d]: both from and to are required", ErrInvalidManifest, i)
		}
		add(core.SourceFile{Path: e.From})
		add(core.SourceFile{Path: e.To})
	}

	m.Files = files
	return nil
}

// Merge adds files not already listed, keeping the manifest's roles for
// files it already knows.
func (m *Manifest) Merge(files []core.SourceFile) {
	seen := make(map[string]bool, len(m.Files))
	for _, f := range m.Files {
		seen[f.Path] = true
	}
	for _, f := range files {
		f.Path = pattern.NormalizePath(f.Path)
		if f.Path == "" || seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		m.Files = append(m.Files, f)
	}
}

// Graph builds the directed import graph. Node data is the SourceFile.
func (m *Manifest) Graph() *dag.Graph {
	g := dag.NewGraph()
	for _, f := range m.Files {
		g.AddNode(f.Path, f)
	}
	for _, e := range m.Edges {
		// Normalize guarantees both endpoints are nodes.
		_ = g.AddEdge(e.From, e.To)
	}
	return g
}
