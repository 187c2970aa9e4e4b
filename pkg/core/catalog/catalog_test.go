package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	cat := validCatalog()

	if err := Save(path, cat); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if errs := Validate(loaded); errs != nil {
		t.Errorf("reloaded catalog must be valid: %v", errs)
	}
	if !reflect.DeepEqual(cat, loaded) {
		t.Errorf("round trip changed the catalog:\nsaved:  %+v\nloaded: %+v", cat, loaded)
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	if err := Save(path, validCatalog()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(data)
	if !strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\n\n") {
		t.Error("catalog file must end with exactly one trailing newline")
	}
	if !strings.Contains(s, "\n  \"companies\"") {
		t.Errorf("catalog file must be 2-space indented, got:\n%s", s)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "companies.json")
	if err := Save(path, validCatalog()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "companies.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only companies.json in dir, got %v", names)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	if err := os.WriteFile(path, []byte(`{"companies": [`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed catalog JSON")
	}
}

func TestFindIndexNormalizes(t *testing.T) {
	cat := validCatalog()
	if idx := FindIndex(cat, " aapl "); idx != 0 {
		t.Errorf("FindIndex(' aapl ') = %d, want 0", idx)
	}
	if idx := FindIndex(cat, "ZZZZ"); idx != -1 {
		t.Errorf("FindIndex('ZZZZ') = %d, want -1", idx)
	}
}

func TestCompanyAtBounds(t *testing.T) {
	cat := validCatalog()
	if _, err := CompanyAt(cat, -1); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := CompanyAt(cat, len(cat.Companies)); err == nil {
		t.Error("expected error for out-of-range index")
	}
	c, err := CompanyAt(cat, 1)
	if err != nil || c.Ticker != "MSFT" {
		t.Errorf("CompanyAt(1) = %v, %v", c, err)
	}
}
