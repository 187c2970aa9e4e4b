package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"finance_podcast/pkg/core/fetch"
)

func newTestSource(t *testing.T, baseURL string) *Source {
	t.Helper()
	client, err := fetch.NewClient("test@example.com", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	source, err := NewSource(client, DefaultRules(), nil)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	source.BaseURL = baseURL
	return source
}

func TestCandidates(t *testing.T) {
	source := newTestSource(t, DefaultBaseURL)

	cases := []struct {
		ticker string
		want   []string
	}{
		{"MSFT", []string{"msft"}},
		{"BRK.B", []string{"brk.b", "brk-b", "brkb"}},
		{"GOOGL", []string{"googl", "goog"}},
		{" googl ", []string{"googl", "goog"}},
	}
	for _, c := range cases {
		if got := source.Candidates(c.ticker); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Candidates(%q) = %v, want %v", c.ticker, got, c.want)
		}
	}
}

func TestLocateSkipsFailingExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/e/nasdaq/s/msft", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/e/nyse/s/msft", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/e/nyse/s/msft/y/2026/q/q1">Q1 2026</a></body></html>`))
	})
	mux.HandleFunc("/e/nyse/s/msft/y/2026/q/q1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Earnings call 1/15/2026</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := newTestSource(t, srv.URL)

	meta, ok := source.Locate(context.Background(), "MSFT")
	if !ok {
		t.Fatal("expected a located call, got not-found")
	}
	if meta.Exchange != "nyse" || meta.Symbol != "msft" || meta.Year != 2026 || meta.Quarter != "q1" {
		t.Errorf("unexpected meta: %+v", meta)
	}
	if meta.Date == nil || *meta.Date != "2026-01-15" {
		t.Errorf("expected call date 2026-01-15, got %v", meta.Date)
	}
}

func TestLocateNotFoundIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	source := newTestSource(t, srv.URL)
	if meta, ok := source.Locate(context.Background(), "ZZZZ"); ok {
		t.Errorf("expected not-found, got %+v", meta)
	}
}

func TestLocateFirstLinkWins(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/e/nasdaq/s/msft", func(w http.ResponseWriter, r *http.Request) {
		// Latest is listed first; an older call follows.
		w.Write([]byte(`<a href="/e/nasdaq/s/msft/y/2026/q/q2">Q2</a><a href="/e/nasdaq/s/msft/y/2025/q/q4">Q4</a>`))
	})
	mux.HandleFunc("/e/nasdaq/s/msft/y/2026/q/q2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>no date here</p>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := newTestSource(t, srv.URL)
	meta, ok := source.Locate(context.Background(), "MSFT")
	if !ok {
		t.Fatal("expected a located call")
	}
	if meta.Year != 2026 || meta.Quarter != "q2" {
		t.Errorf("expected first listed (2026, q2), got (%d, %s)", meta.Year, meta.Quarter)
	}
	if meta.Date != nil {
		t.Errorf("expected nil date when page has none, got %v", *meta.Date)
	}
}

func TestNormalizeQuarter(t *testing.T) {
	good := map[string]string{"1": "q1", "q3": "q3", "Q4": "q4", " 2 ": "q2"}
	for in, want := range good {
		got, err := NormalizeQuarter(in)
		if err != nil || got != want {
			t.Errorf("NormalizeQuarter(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"5", "q5", "", "qq1", "first"} {
		if _, err := NormalizeQuarter(in); err == nil {
			t.Errorf("NormalizeQuarter(%q) should fail", in)
		}
	}
}

func TestBuildURL(t *testing.T) {
	source := newTestSource(t, DefaultBaseURL)

	url, err := source.BuildURL(" NASDAQ ", " MSFT ", 2026, "1")
	if err != nil {
		t.Fatalf("BuildURL: %v", err)
	}
	want := "https://earningscall.biz/e/nasdaq/s/msft/y/2026/q/q1"
	if url != want {
		t.Errorf("BuildURL = %q, want %q", url, want)
	}

	if _, err := source.BuildURL("", "msft", 2026, "q1"); err == nil {
		t.Error("expected error for missing exchange")
	}
	if _, err := source.BuildURL("nasdaq", "", 2026, "q1"); err == nil {
		t.Error("expected error for missing symbol")
	}
}

func TestFetchProducesCleanText(t *testing.T) {
	page := `<html><head><style>.x{}</style></head><body>
		<nav>Search</nav><div>Login</div>
		<p>Operator</p>
		<p>Good morning, and welcome.</p>
		<p>Disclaimer</p>
		<p>legal text</p>
	</body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/e/nasdaq/s/msft/y/2026/q/q1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := newTestSource(t, srv.URL)
	text, err := source.Fetch(context.Background(), "nasdaq", "msft", 2026, "q1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if !strings.HasPrefix(text, "Operator\n") {
		t.Errorf("expected transcript to start at Operator, got %q", text)
	}
	if strings.Contains(text, "Disclaimer") || strings.Contains(text, "legal text") {
		t.Errorf("disclaimer tail not trimmed: %q", text)
	}
	if strings.Contains(text, "Search") || strings.Contains(text, "Login") {
		t.Errorf("chrome not trimmed: %q", text)
	}
}
