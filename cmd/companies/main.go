// Command companies validates and enriches the company catalog file.
//
// Usage:
//
//	companies --file companies.json --ticker MSFT --ticker AAPL,GOOGL
//	companies --file companies.json --validate-only
package main

import (
	"context"
	"errors"
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
)

// tickerList collects repeatable, comma-separated --ticker values.
type tickerList []string

func (t *tickerList) String() string { return strings.Join(*t, ",") }

func (t *tickerList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*t = append(*t, part)
		}
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var tickers tickerList
	file := flag.String("file", "companies.json", "Path to companies.json")
	flag.Var(&tickers, "ticker", "Ticker(s) to add/update; repeatable or comma-separated")
	validateOnly := flag.Bool("validate-only", false, "Only validate companies.json and exit")
	updateExisting := flag.Bool("update-existing", false, "Overwrite existing name/cik/exchange/earnings_call")
	dryRun := flag.Bool("dry-run", false, "Do not write changes")
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

	cat, err := catalog.Load(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if errs := catalog.Validate(cat); errs != nil {
		printValidationErrors(*file, errs)
		return 2
	}
	if *validateOnly {
		fmt.Printf("%s valid\n", *file)
		return 0
	}

	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "provide --ticker TICKER (at least one), or use --validate-only")
		return 2
	}

	logger := zap.NewNop()
	if *verbose {
		logger = zap.Must(zap.NewDevelopment())
		defer logger.Sync()
	}

	rules := transcript.DefaultRules()
	if *rulesPath != "" {
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

	enricher := &catalog.Enricher{
		Registry: edgar.NewResolver(client, logger),
		Calls:    source,
		Logger:   logger,
	}

	result, err := enricher.MergeAndSave(context.Background(), *file, tickers, catalog.MergeOptions{
		UpdateExisting: *updateExisting,
		DryRun:         *dryRun,
	})
	if err != nil {
		var verrs catalog.ValidationErrors
		if errors.As(err, &verrs) {
			printValidationErrors(*file, verrs)
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case result.Saved:
		fmt.Printf("updated %s\n", *file)
	case result.Changed:
		fmt.Printf("dry-run: %s left unchanged\n", *file)
	default:
		fmt.Printf("no changes for %s\n", *file)
	}
	return 0
}

// printValidationErrors emits one bullet per violation on stderr.
func printValidationErrors(file string, errs catalog.ValidationErrors) {
	fmt.Fprintf(os.Stderr, "INVALID %s\n", file)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "- %s\n", e)
	}
}
