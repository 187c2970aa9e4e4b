// Package transcript locates, fetches and cleans earnings-call transcripts
// from earningscall.biz.
package transcript

import (
	"fmt"
	"os"
	"regexp"

	yaml "gopkg.in/yaml.v2"
)

// Rules carry the site-specific heuristics used by the locator and the
// text cleaner. The cleaning vocabulary is coupled to the current markup of
// one site; keeping it in data (and YAML-overridable) lets it be swapped
// without touching the parsing logic.
type Rules struct {
	// Exchanges is the listing-probe priority order.
	Exchanges []string `yaml:"exchanges"`

	// SymbolAliases maps a normalized (uppercase) ticker to the symbol
	// spelling the site actually uses.
	SymbolAliases map[string]string `yaml:"symbol_aliases"`

	// ChromeLines are exact lowercase matches for navigation/footer
	// boilerplate dropped from the top of a transcript.
	ChromeLines []string `yaml:"chrome_lines"`

	// Decorations are standalone decorative tokens treated as noise.
	Decorations []string `yaml:"decorations"`

	// ChromePrefixes are lowercase prefixes marking branded chrome lines.
	ChromePrefixes []string `yaml:"chrome_prefixes"`

	// CopyrightPattern matches whole copyright lines.
	CopyrightPattern string `yaml:"copyright_pattern"`

	// StartAnchor and EndAnchor re-anchor the transcript body: everything
	// before the first StartAnchor line is dropped, and the first EndAnchor
	// line and everything after it are dropped. Matched case-insensitively
	// against whole lines.
	StartAnchor string `yaml:"start_anchor"`
	EndAnchor   string `yaml:"end_anchor"`
}

// DefaultRules mirrors the site's current boilerplate vocabulary.
func DefaultRules() Rules {
	return Rules{
		Exchanges: []string{"nasdaq", "nyse", "amex"},
		SymbolAliases: map[string]string{
			"GOOGL": "goog",
		},
		ChromeLines: []string{
			"search", "calendar", "chatai", "pricing", "resources",
			"about us", "top employers", "login", "download app",
			"download apps", "designed by", "company", "quick link",
			"resource", "download", "share", "disclaimer",
		},
		Decorations:      []string{"-", "–", "—", "1.0x"},
		ChromePrefixes:   []string{"earningscall ·"},
		CopyrightPattern: `^©.*$`,
		StartAnchor:      "operator",
		EndAnchor:        "disclaimer",
	}
}

// LoadRules reads a YAML rules file over the defaults, so a partial file
// only overrides the keys it names.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if _, err := regexp.Compile(rules.CopyrightPattern); err != nil {
		return rules, fmt.Errorf("invalid copyright_pattern in %s: %w", path, err)
	}
	return rules, nil
}
