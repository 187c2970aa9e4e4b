package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "exchanges: [nyse]\nsymbol_aliases:\n  GOOGL: goog\n  FOO: bar\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.Exchanges) != 1 || rules.Exchanges[0] != "nyse" {
		t.Errorf("exchanges override not applied: %v", rules.Exchanges)
	}
	if rules.SymbolAliases["FOO"] != "bar" {
		t.Errorf("alias override not applied: %v", rules.SymbolAliases)
	}
	// Keys the file does not name keep their defaults.
	if rules.StartAnchor != "operator" || rules.EndAnchor != "disclaimer" {
		t.Errorf("defaults lost on partial override: %+v", rules)
	}
	if len(rules.ChromeLines) == 0 {
		t.Error("default chrome lines lost on partial override")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing rules file")
	}
}

func TestLoadRulesRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("copyright_pattern: '(['\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
