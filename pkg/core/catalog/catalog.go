// Package catalog loads, validates, enriches and persists the company
// catalog file.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"finance_podcast/pkg/models"
)

// Load reads and decodes the catalog file. Structural type mismatches
// surface here as decode errors; field-level rules are checked separately
// by Validate so every violation can be reported at once.
func Load(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var cat models.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return &cat, nil
}

// Save writes the catalog atomically: encode to a temp file in the target
// directory, then rename over the original, so a crash mid-write can never
// leave a truncated catalog behind. Output is 2-space indented with a
// trailing newline for stable diffs.
func Save(path string, cat *models.Catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".companies-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp catalog: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp catalog: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}

// FindIndex returns the index of the record whose normalized ticker matches,
// or -1 when absent.
func FindIndex(cat *models.Catalog, ticker string) int {
	wanted := models.NormalizeTicker(ticker)
	for i, c := range cat.Companies {
		if models.NormalizeTicker(c.Ticker) == wanted {
			return i
		}
	}
	return -1
}

// CompanyAt returns the record at a 0-based index, bounds-checked.
func CompanyAt(cat *models.Catalog, index int) (*models.CompanyRecord, error) {
	if len(cat.Companies) == 0 {
		return nil, fmt.Errorf("catalog has no companies")
	}
	if index < 0 || index >= len(cat.Companies) {
		return nil, fmt.Errorf("company index out of range: %d (0..%d)", index, len(cat.Companies)-1)
	}
	return cat.Companies[index], nil
}
