// Package publish stores rendered blog artifacts.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"newsblog/internal/render"
)

// Publisher stores artifacts and returns where each one ended up.
type Publisher interface {
	Publish(ctx context.Context, artifacts []render.Artifact) ([]string, error)
}

// Dir writes artifacts into a local directory.
type Dir struct {
	Path string
}

// NewDir returns a publisher writing to path ("." when empty).
func NewDir(path string) *Dir {
	if path == "" {
		path = "."
	}
	return &Dir{Path: path}
}

func (d *Dir) Publish(ctx context.Context, artifacts []render.Artifact) ([]string, error) {
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", d.Path, err)
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		name := filepath.Base(a.Name)
		path := filepath.Join(d.Path, name)
		if err := os.WriteFile(path, a.Data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
