// Package edgar resolves tickers to SEC filer identities and filing
// metadata via the EDGAR public endpoints.
// API documentation: https://www.sec.gov/developer
package edgar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"finance_podcast/pkg/core/fetch"
	"finance_podcast/pkg/models"
)

const (
	// DefaultRegistryURL is the SEC-maintained ticker -> CIK mapping,
	// one JSON document covering all public tickers.
	DefaultRegistryURL = "https://www.sec.gov/files/company_tickers.json"

	// DefaultSubmissionsURL is the per-company filings index, keyed by
	// 10-digit zero-padded CIK.
	DefaultSubmissionsURL = "https://data.sec.gov/submissions/CIK%s.json"

	// archivesBaseURL is the filing document root, keyed by CIK with
	// leading zeros stripped and accession number with dashes stripped.
	archivesBaseURL = "https://www.sec.gov/Archives/edgar/data/%s/%s/"
)

// ErrNotFound marks absence (unknown ticker, or no filing of the requested
// form) as opposed to corruption; the caller decides severity.
var ErrNotFound = errors.New("not found")

// registryEntry is one record of the ticker registry. The document is keyed
// by arbitrary index strings and treated as an unordered bag of records.
type registryEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Resolver answers ticker -> CIK -> filing queries. The registry snapshot
// is fetched once per Resolver and reused across lookups; there is no
// caching beyond the process.
type Resolver struct {
	// RegistryURL and SubmissionsURL are overridable for tests.
	RegistryURL    string
	SubmissionsURL string

	client   *fetch.Client
	logger   *zap.Logger
	registry []registryEntry
}

// NewResolver builds a Resolver. The client already guarantees an identity
// header on every request.
func NewResolver(client *fetch.Client, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		RegistryURL:    DefaultRegistryURL,
		SubmissionsURL: DefaultSubmissionsURL,
		client:         client,
		logger:         logger,
	}
}

// Company returns the registry name and 10-digit CIK for a ticker.
// Returns ErrNotFound when the ticker is absent from the SEC mapping.
func (r *Resolver) Company(ctx context.Context, ticker string) (name, cik string, err error) {
	entry, err := r.lookup(ctx, ticker)
	if err != nil {
		return "", "", err
	}
	return entry.Title, fmt.Sprintf("%010d", entry.CIK), nil
}

// lookup scans the registry for the first entry matching the normalized
// ticker. Dots and dashes are treated as the same separator since the two
// sources disagree on spelling (BRK.B vs BRK-B).
func (r *Resolver) lookup(ctx context.Context, ticker string) (*registryEntry, error) {
	if err := r.loadRegistry(ctx); err != nil {
		return nil, err
	}
	wanted := strings.ReplaceAll(models.NormalizeTicker(ticker), ".", "-")
	for i := range r.registry {
		got := strings.ReplaceAll(models.NormalizeTicker(r.registry[i].Ticker), ".", "-")
		if got == wanted {
			return &r.registry[i], nil
		}
	}
	return nil, fmt.Errorf("ticker %s absent from SEC registry: %w", models.NormalizeTicker(ticker), ErrNotFound)
}

// loadRegistry fetches the full registry snapshot on first use. Entries are
// ordered by their numeric document key so lookups stay deterministic.
func (r *Resolver) loadRegistry(ctx context.Context) error {
	if r.registry != nil {
		return nil
	}

	var raw map[string]registryEntry
	if err := r.client.GetJSON(ctx, r.RegistryURL, &raw); err != nil {
		return fmt.Errorf("failed to fetch SEC ticker registry: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	entries := make([]registryEntry, 0, len(keys))
	for _, k := range keys {
		if raw[k].Ticker == "" {
			continue
		}
		entries = append(entries, raw[k])
	}
	r.registry = entries
	r.logger.Debug("loaded SEC ticker registry", zap.Int("entries", len(entries)))
	return nil
}
