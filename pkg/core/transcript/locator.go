package transcript

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"finance_podcast/pkg/core/fetch"
	"finance_podcast/pkg/models"
)

// DefaultBaseURL is the transcript site root.
const DefaultBaseURL = "https://earningscall.biz"

var (
	// yearQuarterPath matches transcript links like /y/2026/q/q1.
	yearQuarterPath = regexp.MustCompile(`/y/(\d{4})/q/(q[1-4])\b`)

	// usDate matches M/D/YYYY tokens anywhere in a page.
	usDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// CallMeta describes one located earnings call.
type CallMeta struct {
	Exchange string
	Symbol   string
	Year     int
	Quarter  string  // q1..q4
	Date     *string // YYYY-MM-DD, nil when no date was found on the page
}

// Source is the access point to the transcript site. Construct once with an
// identity-stamped fetch client; BaseURL is overridable for tests.
type Source struct {
	BaseURL string

	client  *fetch.Client
	rules   Rules
	cleaner *Cleaner
	logger  *zap.Logger
}

// NewSource builds a Source around the given client and rule set.
func NewSource(client *fetch.Client, rules Rules, logger *zap.Logger) (*Source, error) {
	cleaner, err := NewCleaner(rules)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		BaseURL: DefaultBaseURL,
		client:  client,
		rules:   rules,
		cleaner: cleaner,
		logger:  logger,
	}, nil
}

// Candidates generates the symbol spellings to probe for a ticker, in
// priority order with duplicates removed: the lowercased ticker, dot-to-dash
// and dot-stripped variants, then any configured site alias.
func (s *Source) Candidates(ticker string) []string {
	normalized := models.NormalizeTicker(ticker)
	t := strings.ToLower(normalized)

	candidates := []string{t}
	if strings.Contains(t, ".") {
		candidates = append(candidates, strings.ReplaceAll(t, ".", "-"))
		candidates = append(candidates, strings.ReplaceAll(t, ".", ""))
	}
	if alias, ok := s.rules.SymbolAliases[normalized]; ok {
		candidates = append(candidates, strings.ToLower(alias))
	}

	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Locate finds the most recent transcript for a ticker by probing each
// (symbol, exchange) combination in priority order. Fetch failures for one
// combination are swallowed and the next is tried; exhausting all
// combinations returns ok=false, which is absence, not an error.
func (s *Source) Locate(ctx context.Context, ticker string) (*CallMeta, bool) {
	for _, symbol := range s.Candidates(ticker) {
		for _, exchange := range s.rules.Exchanges {
			listingURL := fmt.Sprintf("%s/e/%s/s/%s", s.BaseURL, exchange, symbol)
			listing, err := s.client.GetHTML(ctx, listingURL)
			if err != nil {
				s.logger.Debug("listing fetch failed, trying next candidate",
					zap.String("url", listingURL), zap.Error(err))
				continue
			}

			year, quarter, ok := firstYearQuarter(listing)
			if !ok {
				continue
			}

			pageURL := fmt.Sprintf("%s/e/%s/s/%s/y/%d/q/%s", s.BaseURL, exchange, symbol, year, quarter)
			page, err := s.client.GetHTML(ctx, pageURL)
			if err != nil {
				s.logger.Debug("transcript fetch failed, trying next candidate",
					zap.String("url", pageURL), zap.Error(err))
				continue
			}

			return &CallMeta{
				Exchange: exchange,
				Symbol:   symbol,
				Year:     year,
				Quarter:  quarter,
				Date:     firstCallDate(page),
			}, true
		}
	}
	return nil, false
}

// firstYearQuarter extracts the (year, quarter) of the first transcript link
// on a listing page, in document order. The site lists the latest call
// first; if it ever switched to oldest-first this read would silently
// invert, so the ordering assumption lives here in one place.
func firstYearQuarter(listingHTML string) (int, string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return 0, "", false
	}

	var year int
	var quarter string
	found := false
	doc.Find("a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		m := yearQuarterPath.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		year, _ = strconv.Atoi(m[1])
		quarter = m[2]
		found = true
		return false
	})
	return year, quarter, found
}

// firstCallDate returns the first valid M/D/YYYY token in the page as an
// ISO date. Absent or unparseable dates are simply nil; the call date is
// best-effort metadata.
func firstCallDate(pageHTML string) *string {
	for _, m := range usDate.FindAllString(pageHTML, -1) {
		t, err := time.Parse("1/2/2006", m)
		if err != nil {
			continue
		}
		iso := t.Format("2006-01-02")
		return &iso
	}
	return nil
}
