package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalPutter writes objects as files under a directory.
type LocalPutter struct {
	dir string
}

// NewLocalPutter creates a LocalPutter rooted at dir.
func NewLocalPutter(dir string) *LocalPutter {
	if dir == "" {
		dir = "."
	}
	return &LocalPutter{dir: dir}
}

// Put implements ObjectPutter. The returned location is the file path.
func (p *LocalPutter) Put(ctx context.Context, key string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(p.dir, filepath.Clean("/"+key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
