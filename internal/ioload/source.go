package ioload

import (
	"context"
	"fmt"
	"os"
)

// Source supplies the manifest a load run inserts. Implementations
// read YAML manifests or SQLite snapshots.
type Source interface {
	// Manifest reads and returns the catalog description.
	Manifest(ctx context.Context) (*Manifest, error)

	// Name describes the source for logs.
	Name() string
}

// yamlSource reads a Manifest from a YAML file on disk.
type yamlSource struct {
	path string
}

// NewYAMLSource creates a Source over a YAML manifest file.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

func (s *yamlSource) Manifest(ctx context.Context) (*Manifest, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %q: %w", s.path, err)
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", s.path, err)
	}

	return m, nil
}

func (s *yamlSource) Name() string {
	return "manifest " + s.path
}
