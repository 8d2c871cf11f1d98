package chapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSArtifactResolver reads and writes alignment artifacts as plain files
// on disk, creating parent directories on write (grounded on the
// directory-creation idiom in session/manager.go). It implements
// ports.ArtifactResolver.
type FSArtifactResolver struct {
	Root string
}

// NewFSArtifactResolver returns a resolver rooted at root; relative paths
// passed to Read/Write are joined against it.
func NewFSArtifactResolver(root string) *FSArtifactResolver {
	return &FSArtifactResolver{Root: root}
}

func (f *FSArtifactResolver) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.Root, path)
}

// Read loads the bytes at path.
func (f *FSArtifactResolver) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(f.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return data, nil
}

// Write persists data at path, creating parent directories as needed.
func (f *FSArtifactResolver) Write(_ context.Context, path string, data []byte) error {
	full := f.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create artifact directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}
