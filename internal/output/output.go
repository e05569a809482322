// Package output writes the run's JSON artifacts.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/laredo-harvester/internal/types"
)

// Writer persists aggregated records under one output directory.
type Writer struct {
	dir string
}

// NewWriter ensures dir exists.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// WriteRecords writes records to <dir>/<stem>.json and returns the path.
func (w *Writer) WriteRecords(stem string, records []types.AggregatedRecord) (string, error) {
	path := filepath.Join(w.dir, stem+".json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize records for %s: %w", stem, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
