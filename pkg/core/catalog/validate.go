package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"finance_podcast/pkg/models"
)

var (
	cikPattern     = regexp.MustCompile(`^[0-9]{10}$`)
	quarterPattern = regexp.MustCompile(`^q[1-4]$`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidationErrors is the complete list of schema violations found in one
// pass. A catalog is never partially fixed: any violation aborts the whole
// operation before mutation.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return "catalog validation failed:\n- " + strings.Join(e, "\n- ")
}

// Validate checks every record against the catalog schema and returns all
// violations at once, or nil when the catalog is valid.
func Validate(cat *models.Catalog) ValidationErrors {
	var errs ValidationErrors
	if cat == nil {
		return ValidationErrors{"root must be an object with a companies list"}
	}

	seen := make(map[string]struct{}, len(cat.Companies))
	for i, c := range cat.Companies {
		if c == nil {
			errs = append(errs, fmt.Sprintf("companies[%d] must be an object", i))
			continue
		}

		if strings.TrimSpace(c.Ticker) == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].ticker is required", i))
		} else {
			tk := models.NormalizeTicker(c.Ticker)
			if _, dup := seen[tk]; dup {
				errs = append(errs, fmt.Sprintf("duplicate ticker: %s", tk))
			}
			seen[tk] = struct{}{}
		}

		if c.CIK != "" && !cikPattern.MatchString(c.CIK) {
			errs = append(errs, fmt.Sprintf("companies[%d].cik must be a 10-digit string (got %q)", i, c.CIK))
		}

		if c.Exchange != "" && strings.TrimSpace(c.Exchange) == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].exchange must be a non-empty string if present", i))
		}

		if ec := c.EarningsCall; ec != nil {
			if strings.TrimSpace(ec.Symbol) == "" {
				errs = append(errs, fmt.Sprintf("companies[%d].earnings_call.symbol is required when earnings_call is set", i))
			}
			if ec.Year == 0 {
				errs = append(errs, fmt.Sprintf("companies[%d].earnings_call.year is required when earnings_call is set", i))
			}
			if !quarterPattern.MatchString(ec.Quarter) {
				errs = append(errs, fmt.Sprintf("companies[%d].earnings_call.quarter must be q1..q4 (got %q)", i, ec.Quarter))
			}
			if ec.Date != nil && !datePattern.MatchString(*ec.Date) {
				errs = append(errs, fmt.Sprintf("companies[%d].earnings_call.date must be YYYY-MM-DD or null (got %q)", i, *ec.Date))
			}
		}
	}
	return errs
}
