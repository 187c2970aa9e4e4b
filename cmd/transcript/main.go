// Command transcript fetches earnings-call transcripts and prints them as
// clean plain text, optionally alongside each company's latest 10-Q
// metadata from SEC EDGAR.
//
// Usage:
//
//	transcript --exchange nasdaq --ticker msft --year 2026 --quarter q1
//	transcript --companies-json companies.json --company-index 0
//	transcript --companies-json companies.json --all-companies
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"finance_podcast/pkg/core/catalog"
	"finance_podcast/pkg/core/edgar"
	"finance_podcast/pkg/core/fetch"
	"finance_podcast/pkg/core/transcript"
	"finance_podcast/pkg/models"
)

func main() {
	os.Exit(run())
}

func run() int {
	exchange := flag.String("exchange", "", "e.g. nasdaq / nyse (optional with --company-index)")
	ticker := flag.String("ticker", "", "e.g. MSFT (optional with --company-index)")
	year := flag.Int("year", 0, "e.g. 2026 (optional with --company-index)")
	quarter := flag.String("quarter", "", "1-4 or q1-q4 (optional with --company-index)")
	companiesJSON := flag.String("companies-json", "companies.json", "Path to companies.json")
	companyIndex := flag.Int("company-index", -1, "Use metadata from companies.json at this 0-based index")
	allCompanies := flag.Bool("all-companies", false, "Process every company with earnings_call metadata")
	with10Q := flag.Bool("with-10q", true, "Print latest 10-Q metadata from SEC for each company")
	secIdentity := flag.String("sec-identity", "", "Contact identity for outbound requests (or env SEC_IDENTITY)")
	rulesPath := flag.String("rules", "", "Optional YAML file overriding the transcript-site heuristics")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}
	if *secIdentity == "" {
		*secIdentity = os.Getenv("SEC_IDENTITY")
	}
	if *secIdentity == "" {
		*secIdentity = "my@email.com"
	}

	logger := zap.NewNop()
	if *verbose {
		logger = zap.Must(zap.NewDevelopment())
		defer logger.Sync()
	}

	rules := transcript.DefaultRules()
	if *rulesPath != "" {
		var err error
		if rules, err = transcript.LoadRules(*rulesPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	client, err := fetch.NewClient(*secIdentity, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	source, err := transcript.NewSource(client, rules, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	resolver := edgar.NewResolver(client, logger)

	ctx := context.Background()

	if *allCompanies {
		return runAllCompanies(ctx, *companiesJSON, source, resolver, *with10Q)
	}

	if *companyIndex >= 0 {
		cat, err := catalog.Load(*companiesJSON)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		company, err := catalog.CompanyAt(cat, *companyIndex)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *exchange == "" {
			*exchange = company.Exchange
		}
		if ec := company.EarningsCall; ec != nil {
			if *year == 0 {
				*year = ec.Year
			}
			if *quarter == "" {
				*quarter = ec.Quarter
			}
			if *ticker == "" {
				*ticker = ec.Symbol
			}
		}
		if *ticker == "" {
			*ticker = company.Ticker
		}
	}

	if *exchange == "" || *ticker == "" || *year == 0 || *quarter == "" {
		fmt.Fprintln(os.Stderr, "provide --exchange/--ticker/--year/--quarter, or use --company-index with earnings_call metadata in companies.json")
		return 2
	}

	text, err := source.Fetch(ctx, *exchange, *ticker, *year, *quarter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(text)
	return 0
}

// runAllCompanies walks the catalog and prints each transcript, isolating
// per-company failures to stderr so one bad entry cannot abort the batch.
func runAllCompanies(ctx context.Context, path string, source *transcript.Source, resolver *edgar.Resolver, with10Q bool) int {
	cat, err := catalog.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(cat.Companies) == 0 {
		fmt.Fprintf(os.Stderr, "%s has no companies list\n", path)
		return 2
	}

	interactive := stdinIsTerminal()
	reader := bufio.NewReader(os.Stdin)

	for _, company := range cat.Companies {
		if company == nil || company.EarningsCall == nil {
			continue
		}
		tk := models.NormalizeTicker(company.Ticker)

		if with10Q {
			info, err := resolver.LatestFiling(ctx, tk, "10-Q")
			if err != nil {
				fmt.Fprintf(os.Stderr, "[10-Q ERROR] %s: %v\n", tk, err)
			} else {
				fmt.Printf("[10-Q] %s period=%s filed=%s acc=%s cik=%s\n",
					tk, info.PeriodOfReport, info.FilingDate, info.AccessionNumber, info.CIK)
			}
		}

		text, err := source.FetchForCompany(ctx, company)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] %s: %v\n", tk, err)
			continue
		}

		fmt.Printf("===== %s =====\n", tk)
		fmt.Print(text)
		fmt.Println()

		if interactive {
			fmt.Print("Press Enter to continue (or 'q' to quit): ")
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			if answer == "q" || answer == "quit" || answer == "exit" {
				break
			}
		}
	}
	return 0
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
