package catalog

import (
	"strings"
	"testing"

	"finance_podcast/pkg/models"
)

func strPtr(s string) *string { return &s }

func validCatalog() *models.Catalog {
	return &models.Catalog{
		Companies: []*models.CompanyRecord{
			{
				Ticker:   "AAPL",
				Name:     "Apple Inc.",
				CIK:      "0000320193",
				Exchange: "nasdaq",
				EarningsCall: &models.EarningsCallRef{
					Symbol:  "aapl",
					Year:    2026,
					Quarter: "q1",
					Date:    strPtr("2026-01-30"),
				},
			},
			{Ticker: "MSFT"},
		},
	}
}

func TestValidateAcceptsValidCatalog(t *testing.T) {
	if errs := Validate(validCatalog()); errs != nil {
		t.Errorf("expected valid catalog, got: %v", errs)
	}
}

func TestValidateRejectsShortCIK(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].CIK = "12345"
	errs := Validate(cat)
	if len(errs) != 1 || !strings.Contains(errs[0], "cik") {
		t.Errorf("expected one cik violation, got: %v", errs)
	}
}

func TestValidateAcceptsPaddedCIK(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].CIK = "0000320193"
	if errs := Validate(cat); errs != nil {
		t.Errorf("0000320193 must be accepted, got: %v", errs)
	}
}

func TestValidateRejectsNonNumericCIK(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].CIK = "00003201AB"
	if errs := Validate(cat); len(errs) == 0 {
		t.Error("expected violation for non-numeric cik")
	}
}

func TestValidateRejectsDuplicateTickers(t *testing.T) {
	cat := validCatalog()
	cat.Companies = append(cat.Companies, &models.CompanyRecord{Ticker: " aapl "})
	errs := Validate(cat)
	if len(errs) != 1 || !strings.Contains(errs[0], "duplicate ticker: AAPL") {
		t.Errorf("expected duplicate-ticker violation, got: %v", errs)
	}
}

func TestValidateRejectsMissingTicker(t *testing.T) {
	cat := validCatalog()
	cat.Companies[1].Ticker = "   "
	errs := Validate(cat)
	if len(errs) != 1 || !strings.Contains(errs[0], "ticker is required") {
		t.Errorf("expected missing-ticker violation, got: %v", errs)
	}
}

func TestValidateRejectsBadQuarter(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].EarningsCall.Quarter = "q5"
	if errs := Validate(cat); len(errs) != 1 || !strings.Contains(errs[0], "quarter") {
		t.Errorf("expected quarter violation, got: %v", errs)
	}
}

func TestValidateRejectsBadDate(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].EarningsCall.Date = strPtr("2026-1-5")
	if errs := Validate(cat); len(errs) != 1 || !strings.Contains(errs[0], "date") {
		t.Errorf("expected date violation, got: %v", errs)
	}
}

func TestValidateAllowsNullDate(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].EarningsCall.Date = nil
	if errs := Validate(cat); errs != nil {
		t.Errorf("null date must be accepted, got: %v", errs)
	}
}

func TestValidateReportsAllViolationsAtOnce(t *testing.T) {
	cat := validCatalog()
	cat.Companies[0].CIK = "12345"
	cat.Companies[0].EarningsCall.Quarter = "Q1"
	cat.Companies[1].Ticker = ""
	errs := Validate(cat)
	if len(errs) != 3 {
		t.Errorf("expected all 3 violations reported together, got %d: %v", len(errs), errs)
	}
}
