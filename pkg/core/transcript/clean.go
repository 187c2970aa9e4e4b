package transcript

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	horizontalWS  = regexp.MustCompile(`[ \t\f\v]+`)
	leadingLineWS = regexp.MustCompile(`\n[ \t]+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Cleaner turns extracted transcript text into speakable plain text using
// an injected rule set. Best-effort: it never fails on content, only on a
// bad rule pattern at construction.
type Cleaner struct {
	rules       Rules
	chrome      map[string]struct{}
	decorations map[string]struct{}
	copyright   *regexp.Regexp
}

// NewCleaner compiles the rule set once.
func NewCleaner(rules Rules) (*Cleaner, error) {
	copyrightRe, err := regexp.Compile(rules.CopyrightPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid copyright pattern: %w", err)
	}
	chrome := make(map[string]struct{}, len(rules.ChromeLines))
	for _, ln := range rules.ChromeLines {
		chrome[ln] = struct{}{}
	}
	decorations := make(map[string]struct{}, len(rules.Decorations))
	for _, d := range rules.Decorations {
		decorations[d] = struct{}{}
	}
	return &Cleaner{
		rules:       rules,
		chrome:      chrome,
		decorations: decorations,
		copyright:   copyrightRe,
	}, nil
}

// Clean normalizes transcript text. Order matters: entities are decoded
// first (the extractor leaves them escaped), then whitespace is collapsed,
// then chrome is trimmed from the top, then the body is re-anchored on the
// start/end anchor lines. Output always ends with exactly one newline.
func Clean(text string) string {
	c, _ := NewCleaner(DefaultRules())
	return c.Clean(text)
}

// Clean applies the full normalization pipeline.
func (c *Cleaner) Clean(text string) string {
	s := html.UnescapeString(text)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// Collapse whitespace but keep paragraph breaks.
	s = horizontalWS.ReplaceAllString(s, " ")
	s = leadingLineWS.ReplaceAllString(s, "\n")
	s = strings.TrimSpace(blankRuns.ReplaceAllString(s, "\n\n"))

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	// Trim top chrome: skip noise until the first substantive line.
	cleaned := make([]string, 0, len(lines))
	started := false
	for _, ln := range lines {
		if !started {
			if c.isNoise(ln) {
				continue
			}
			started = true
		}
		cleaned = append(cleaned, ln)
	}

	// Prefer starting at the start anchor ("Operator") if present.
	for i, ln := range cleaned {
		if strings.EqualFold(ln, c.rules.StartAnchor) {
			cleaned = cleaned[i:]
			break
		}
	}

	// Stop at the end anchor ("Disclaimer"), keeping the body above it.
	for i, ln := range cleaned {
		if strings.EqualFold(ln, c.rules.EndAnchor) {
			cleaned = cleaned[:i]
			break
		}
	}

	// Final pass: collapse remaining blank runs.
	out := make([]string, 0, len(cleaned))
	lastBlank := false
	for _, ln := range cleaned {
		blank := ln == ""
		if blank && lastBlank {
			continue
		}
		out = append(out, ln)
		lastBlank = blank
	}

	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}

// isNoise reports whether a line is boilerplate rather than content.
func (c *Cleaner) isNoise(line string) bool {
	if line == "" {
		return true
	}
	low := strings.ToLower(line)
	for _, prefix := range c.rules.ChromePrefixes {
		if strings.HasPrefix(low, prefix) {
			return true
		}
	}
	if _, ok := c.chrome[low]; ok {
		return true
	}
	if _, ok := c.decorations[low]; ok {
		return true
	}
	return c.copyright.MatchString(line)
}
