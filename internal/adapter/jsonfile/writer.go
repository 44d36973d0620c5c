// Package jsonfile writes the station index as JSON files.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/usgs-station-index/internal/domain"
)

// Output file names.
const (
	PrettyFile   = "stations.json"
	MinifiedFile = "stations.min.json"
)

// Encode sorts a copy of records by (state, name) and returns two UTF-8 JSON
// arrays of the same records: pretty with two-space indentation and minified
// with no insignificant whitespace. Non-ASCII and HTML characters are written
// literally. Neither form has a trailing newline.
func Encode(records []domain.StationRecord) (pretty, minified []byte, err error) {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []domain.StationRecord{}
	}
	domain.SortRecords(sorted)

	if pretty, err = encode(sorted, "  "); err != nil {
		return nil, nil, err
	}
	if minified, err = encode(sorted, ""); err != nil {
		return nil, nil, err
	}
	return pretty, minified, nil
}

func encode(records []domain.StationRecord, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode stations: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Writer writes stations.json and stations.min.json into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Load encodes records and replaces both files. Each file is written to a
// temporary name and renamed so readers never see a partial index.
func (w *Writer) Load(_ context.Context, records []domain.StationRecord) error {
	pretty, minified, err := Encode(records)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(w.dir, PrettyFile), pretty); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(w.dir, MinifiedFile), minified)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
