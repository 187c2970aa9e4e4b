package transcript

import (
	"context"
	"fmt"
	"strings"

	"finance_podcast/pkg/core/htmltext"
	"finance_podcast/pkg/models"
)

// NormalizeQuarter canonicalizes a quarter spelling to q1..q4, accepting
// bare digits ("3") and prefixed forms ("Q3", "q3").
func NormalizeQuarter(quarter string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(quarter))
	q = strings.TrimPrefix(q, "q")
	switch q {
	case "1", "2", "3", "4":
		return "q" + q, nil
	}
	return "", fmt.Errorf("quarter must be 1-4 or q1-q4, got %q", quarter)
}

// BuildURL assembles the transcript page URL for one call.
func (s *Source) BuildURL(exchange, symbol string, year int, quarter string) (string, error) {
	ex := strings.ToLower(strings.TrimSpace(exchange))
	if ex == "" {
		return "", fmt.Errorf("exchange is required (e.g. %q)", "nasdaq")
	}
	sym := strings.ToLower(strings.TrimSpace(symbol))
	if sym == "" {
		return "", fmt.Errorf("symbol is required (e.g. %q)", "msft")
	}
	q, err := NormalizeQuarter(quarter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/e/%s/s/%s/y/%d/q/%s", s.BaseURL, ex, sym, year, q), nil
}

// Fetch downloads one transcript page and returns it as cleaned plain text,
// including the Q&A section when the site carries one.
func (s *Source) Fetch(ctx context.Context, exchange, symbol string, year int, quarter string) (string, error) {
	url, err := s.BuildURL(exchange, symbol, year, quarter)
	if err != nil {
		return "", err
	}
	page, err := s.client.GetHTML(ctx, url)
	if err != nil {
		return "", err
	}
	return s.cleaner.Clean(htmltext.Extract(page)), nil
}

// FetchForCompany fetches the transcript referenced by a catalog record's
// earnings_call metadata.
func (s *Source) FetchForCompany(ctx context.Context, company *models.CompanyRecord) (string, error) {
	ec := company.EarningsCall
	if ec == nil {
		return "", fmt.Errorf("no earnings_call metadata for %s", company.Ticker)
	}
	exchange := strings.TrimSpace(company.Exchange)
	if exchange == "" {
		return "", fmt.Errorf("missing exchange for %s", company.Ticker)
	}
	symbol := strings.TrimSpace(ec.Symbol)
	if symbol == "" {
		symbol = strings.TrimSpace(company.Ticker)
	}
	if symbol == "" {
		return "", fmt.Errorf("missing earnings_call symbol for %s", company.Ticker)
	}
	return s.Fetch(ctx, exchange, symbol, ec.Year, ec.Quarter)
}
