// Package models defines the catalog data model shared across the pipeline.
package models

import "strings"

// CompanyRecord is one entry in the company catalog. Ticker is the primary
// key; all other fields are enrichment and may be absent.
type CompanyRecord struct {
	Ticker       string           `json:"ticker"`
	Name         string           `json:"name,omitempty"`
	CIK          string           `json:"cik,omitempty"` // 10-digit, zero-padded
	Exchange     string           `json:"exchange,omitempty"`
	EarningsCall *EarningsCallRef `json:"earnings_call,omitempty"`
}

// EarningsCallRef points at one transcript on the earnings-call site.
// Symbol is the site-specific spelling and may differ from the ticker.
type EarningsCallRef struct {
	Symbol  string  `json:"symbol"`
	Year    int     `json:"year"`
	Quarter string  `json:"quarter"` // q1..q4
	Date    *string `json:"date"`    // YYYY-MM-DD, or null when unknown
}

// Catalog is the root document of the companies file.
type Catalog struct {
	Companies []*CompanyRecord `json:"companies"`
}

// FilingInfo describes the most recent SEC filing of a given form type for
// one company. Constructed per query, never persisted.
type FilingInfo struct {
	Ticker             string `json:"ticker"`
	CIK                string `json:"cik"`
	CompanyName        string `json:"company_name"`
	FormType           string `json:"form_type"`
	PeriodOfReport     string `json:"period_of_report,omitempty"` // reportDate; empty when SEC omits it
	FilingDate         string `json:"filing_date"`
	AccessionNumber    string `json:"accession_number"`
	PrimaryDocument    string `json:"primary_document"`
	FilingIndexURL     string `json:"filing_index_url"`
	PrimaryDocumentURL string `json:"primary_document_url"`
}

// NormalizeTicker canonicalizes a ticker for lookups and uniqueness checks:
// trimmed and uppercased. Idempotent.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
