package edgar

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finance_podcast/pkg/models"
)

// submissionsDoc is the per-company filings index served by EDGAR.
type submissionsDoc struct {
	Name    string `json:"name"`
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

// recentFilings holds the "recent" filings as parallel same-length arrays,
// indexed positionally rather than as independent records.
type recentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is one recent filing, denormalized from the parallel arrays
// immediately on ingestion so the rest of the resolver never touches raw
// positional data.
type Filing struct {
	Form            string
	AccessionNumber string
	FilingDate      string
	ReportDate      string
	PrimaryDocument string
}

// zipRecent converts the parallel arrays into one Filing per index. The
// form array drives the length; a shorter sibling array (SEC occasionally
// omits trailing reportDate entries) yields an empty field, not an error.
func zipRecent(recent recentFilings) []Filing {
	at := func(arr []string, i int) string {
		if i < len(arr) {
			return arr[i]
		}
		return ""
	}

	filings := make([]Filing, len(recent.Form))
	for i := range recent.Form {
		filings[i] = Filing{
			Form:            recent.Form[i],
			AccessionNumber: at(recent.AccessionNumber, i),
			FilingDate:      at(recent.FilingDate, i),
			ReportDate:      at(recent.ReportDate, i),
			PrimaryDocument: at(recent.PrimaryDocument, i),
		}
	}
	return filings
}

// LatestFiling returns metadata for the first recent filing of formType,
// which EDGAR lists newest-first. Returns ErrNotFound when the ticker is
// unknown or no such filing exists among the recent set; transport and
// malformed-response failures propagate as-is.
func (r *Resolver) LatestFiling(ctx context.Context, ticker, formType string) (*models.FilingInfo, error) {
	entry, err := r.lookup(ctx, ticker)
	if err != nil {
		return nil, err
	}
	cik10 := fmt.Sprintf("%010d", entry.CIK)

	var doc submissionsDoc
	url := fmt.Sprintf(r.SubmissionsURL, cik10)
	if err := r.client.GetJSON(ctx, url, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch SEC submissions for %s: %w", ticker, err)
	}

	var match *Filing
	for _, filing := range zipRecent(doc.Filings.Recent) {
		if filing.Form == formType {
			f := filing
			match = &f
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no %s found in recent filings for %s: %w", formType, models.NormalizeTicker(ticker), ErrNotFound)
	}

	// Document URLs live under the CIK without leading zeros and the
	// accession number without dashes.
	cikBare := fmt.Sprintf("%d", entry.CIK)
	accBare := strings.ReplaceAll(match.AccessionNumber, "-", "")
	base := fmt.Sprintf(archivesBaseURL, cikBare, accBare)

	r.logger.Debug("resolved filing",
		zap.String("ticker", ticker),
		zap.String("form", formType),
		zap.String("accession", match.AccessionNumber))

	return &models.FilingInfo{
		Ticker:             models.NormalizeTicker(ticker),
		CIK:                cik10,
		CompanyName:        doc.Name,
		FormType:           formType,
		PeriodOfReport:     match.ReportDate,
		FilingDate:         match.FilingDate,
		AccessionNumber:    match.AccessionNumber,
		PrimaryDocument:    match.PrimaryDocument,
		FilingIndexURL:     base + "index.json",
		PrimaryDocumentURL: base + match.PrimaryDocument,
	}, nil
}

// CompareRow is one company's entry in a cross-company filing report.
// Failures are carried in Error so one bad ticker cannot abort the batch.
type CompareRow struct {
	Ticker          string `json:"ticker"`
	PeriodOfReport  string `json:"period_of_report,omitempty"`
	FilingDate      string `json:"filing_date,omitempty"`
	CIK             string `json:"cik,omitempty"`
	AccessionNumber string `json:"accession_number,omitempty"`
	FilingIndexURL  string `json:"filing_index_url,omitempty"`
	Error           string `json:"error,omitempty"`
}

// CompareReport is the result of a batch filing comparison.
type CompareReport struct {
	RunID    string       `json:"run_id"`
	FormType string       `json:"form_type"`
	Rows     []CompareRow `json:"rows"`
}

// CompareLatest collects latest-filing metadata for several tickers,
// isolating per-ticker failures into their rows.
func (r *Resolver) CompareLatest(ctx context.Context, tickers []string, formType string) *CompareReport {
	report := &CompareReport{
		RunID:    uuid.NewString(),
		FormType: formType,
		Rows:     make([]CompareRow, 0, len(tickers)),
	}
	for _, t := range tickers {
		info, err := r.LatestFiling(ctx, t, formType)
		if err != nil {
			report.Rows = append(report.Rows, CompareRow{Ticker: t, Error: err.Error()})
			continue
		}
		report.Rows = append(report.Rows, CompareRow{
			Ticker:          t,
			PeriodOfReport:  info.PeriodOfReport,
			FilingDate:      info.FilingDate,
			CIK:             info.CIK,
			AccessionNumber: info.AccessionNumber,
			FilingIndexURL:  info.FilingIndexURL,
		})
	}
	return report
}
