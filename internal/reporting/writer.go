package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spboyer/quorum/internal/models"
)

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteFile writes the report to path as JSON. A path ending in .gz is gzip
// compressed. Parent directories are created as needed.
func WriteFile(path string, report *models.Report) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()

	var w io.Writer = f

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		gz.Name = strings.TrimSuffix(filepath.Base(path), ".gz")

		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("compressing report: %w", cerr)
			}
		}()

		w = gz
	}

	if err := WriteJSON(w, report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*models.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompressing report: %w", err)
		}
		defer gz.Close() //nolint:errcheck
		r = gz
	}

	var report models.Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}

	return &report, nil
}
