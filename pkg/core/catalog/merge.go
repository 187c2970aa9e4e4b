package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"finance_podcast/pkg/core/edgar"
	"finance_podcast/pkg/core/transcript"
	"finance_podcast/pkg/models"
)

// CompanyResolver supplies registry identity for a ticker. Absence is
// signalled with edgar.ErrNotFound; any other error is fatal for the
// ticker being enriched.
type CompanyResolver interface {
	Company(ctx context.Context, ticker string) (name, cik string, err error)
}

// CallLocator discovers the most recent earnings call for a ticker.
// ok=false means nothing was found, which is never an error.
type CallLocator interface {
	Locate(ctx context.Context, ticker string) (*transcript.CallMeta, bool)
}

// MergeOptions control the enrichment merge policy.
type MergeOptions struct {
	// UpdateExisting overwrites populated fields with fresh data. When
	// false, existing non-empty values are never touched.
	UpdateExisting bool

	// DryRun applies the merge in memory but never writes the file.
	DryRun bool
}

// MergeResult reports what a merge did.
type MergeResult struct {
	Changed bool
	Saved   bool
}

// Enricher drives per-ticker enrichment of the catalog from the SEC
// registry and the transcript locator.
type Enricher struct {
	Registry CompanyResolver
	Calls    CallLocator
	Logger   *zap.Logger
}

// MergeAndSave loads the catalog, enriches the requested tickers, and
// persists the result. Validation brackets the mutation: the catalog must
// be valid before any change is applied and again before it is written, so
// a partial or buggy enrichment can never leave it invalid on disk.
func (e *Enricher) MergeAndSave(ctx context.Context, path string, tickers []string, opts MergeOptions) (*MergeResult, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := Load(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cat); errs != nil {
		return nil, errs
	}

	result := &MergeResult{}
	for _, t := range tickers {
		tk := models.NormalizeTicker(t)

		idx := FindIndex(cat, tk)
		if idx < 0 {
			cat.Companies = append(cat.Companies, &models.CompanyRecord{Ticker: tk})
			idx = len(cat.Companies) - 1
			result.Changed = true
			logger.Info("added company", zap.String("ticker", tk))
		}
		company := cat.Companies[idx]

		if err := e.enrichFromRegistry(ctx, company, tk, opts, result, logger); err != nil {
			return nil, err
		}
		e.enrichFromCalls(ctx, company, tk, opts, result, logger)
	}

	sort.Slice(cat.Companies, func(i, j int) bool {
		return models.NormalizeTicker(cat.Companies[i].Ticker) < models.NormalizeTicker(cat.Companies[j].Ticker)
	})

	// Catches any enrichment-introduced violation before anything is written.
	if errs := Validate(cat); errs != nil {
		return nil, fmt.Errorf("post-update validation failed: %w", errs)
	}

	if result.Changed && !opts.DryRun {
		if err := Save(path, cat); err != nil {
			return nil, err
		}
		result.Saved = true
	}
	return result, nil
}

// enrichFromRegistry fills name and cik from the SEC registry. An unknown
// ticker is absence and skipped; transport or malformed-response failures
// abort the whole merge.
func (e *Enricher) enrichFromRegistry(ctx context.Context, company *models.CompanyRecord, ticker string, opts MergeOptions, result *MergeResult, logger *zap.Logger) error {
	name, cik, err := e.Registry.Company(ctx, ticker)
	if err != nil {
		if errors.Is(err, edgar.ErrNotFound) {
			logger.Warn("ticker absent from SEC registry", zap.String("ticker", ticker))
			return nil
		}
		return fmt.Errorf("SEC enrichment failed for %s: %w", ticker, err)
	}

	if (opts.UpdateExisting || company.Name == "") && name != "" && company.Name != name {
		company.Name = name
		result.Changed = true
	}
	if (opts.UpdateExisting || company.CIK == "") && cik != "" && company.CIK != cik {
		company.CIK = cik
		result.Changed = true
	}
	return nil
}

// enrichFromCalls fills exchange and earnings_call from transcript
// discovery. Not finding a transcript is not an error.
func (e *Enricher) enrichFromCalls(ctx context.Context, company *models.CompanyRecord, ticker string, opts MergeOptions, result *MergeResult, logger *zap.Logger) {
	meta, ok := e.Calls.Locate(ctx, ticker)
	if !ok {
		logger.Warn("no earnings call located", zap.String("ticker", ticker))
		return
	}

	if (opts.UpdateExisting || company.Exchange == "") && company.Exchange != meta.Exchange {
		company.Exchange = meta.Exchange
		result.Changed = true
	}
	if opts.UpdateExisting || company.EarningsCall == nil {
		company.EarningsCall = &models.EarningsCallRef{
			Symbol:  meta.Symbol,
			Year:    meta.Year,
			Quarter: meta.Quarter,
			Date:    meta.Date,
		}
		result.Changed = true
	}
	logger.Info("located earnings call",
		zap.String("ticker", ticker),
		zap.String("exchange", meta.Exchange),
		zap.Int("year", meta.Year),
		zap.String("quarter", meta.Quarter))
}
