package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// unsafeChars collapses anything outside [a-z0-9] when building file names.
var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileRecorder writes one JSON file per completed conversation into a data
// directory. This is the default recorder when no database is configured.
type FileRecorder struct {
	dir string
}

// NewFileRecorder creates the data directory if needed and returns a
// recorder writing into it.
func NewFileRecorder(dir string) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}
	return &FileRecorder{dir: dir}, nil
}

// Save writes the record as indented JSON. The file name embeds the
// candidate name and completion timestamp, so repeated saves never collide.
func (r *FileRecorder) Save(_ context.Context, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation record: %w", err)
	}

	path := filepath.Join(r.dir, fileName(rec))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write conversation record: %w", err)
	}
	return nil
}

// fileName builds conversation_<name>_<timestamp>.json with the candidate
// name reduced to a safe slug.
func fileName(rec *Record) string {
	name := strings.ToLower(rec.Profile["name"])
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = "anonymous"
	}
	ts := rec.CompletedAt.Format("20060102_150405")
	return fmt.Sprintf("conversation_%s_%s.json", name, ts)
}
