// Package runner manages run output directories and renders probe
// outcomes to the console.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunDir is the output directory for a single run
type RunDir struct {
	Path string
}

// NewRunDir creates a fresh timestamped directory under baseDir, e.g.
// results/audit_20260829_143005. Directories are never reused; a suffix
// is appended when two runs start within the same second.
func NewRunDir(baseDir, kind string) (*RunDir, error) {
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(baseDir, fmt.Sprintf("%s_%s", kind, stamp))

	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(baseDir, fmt.Sprintf("%s_%s_%d", kind, stamp, i))
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", path, err)
	}
	return &RunDir{Path: path}, nil
}

// Sub creates (if needed) and returns a per-probe subdirectory
func (d *RunDir) Sub(name string) (string, error) {
	path := filepath.Join(d.Path, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory %s: %w", path, err)
	}
	return path, nil
}

// File returns a path inside the run directory
func (d *RunDir) File(name string) string {
	return filepath.Join(d.Path, name)
}
