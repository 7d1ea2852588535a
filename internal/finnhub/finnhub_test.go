package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"equitydash/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-token", zerolog.Nop(), WithBaseURL(srv.URL))
	return c, srv
}

func TestGetSetsAuthHeaderAndParams(t *testing.T) {
	var gotToken, gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Finnhub-Token")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	})

	_, err := c.Get(context.Background(), "/stock/filings", symbolParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotToken != "test-token" {
		t.Errorf("token header = %q, want test-token", gotToken)
	}
	if gotQuery != "symbol=AAPL" {
		t.Errorf("query = %q, want symbol=AAPL", gotQuery)
	}
}

func TestGetWithoutToken(t *testing.T) {
	c := New("", zerolog.Nop())
	_, err := c.Get(context.Background(), "/search", nil)
	if !errors.Is(err, errors.ErrMissingToken) {
		t.Fatalf("err = %v, want ErrMissingToken", err)
	}
}

func TestGetNon2xxReturnsAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	})

	_, err := c.Get(context.Background(), "/search", searchParams{Query: "AAPL"})
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
}

func TestPatentsProjectsColumns(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"companyFilingName":"X","description":"d","filingDate":"2020-02-01","filingStatus":"F","patentType":"U","url":"http://u"}]}`))
	})

	rec, err := c.Patents(context.Background(), "AAPL", "2020-01-01")
	if err != nil {
		t.Fatalf("Patents: %v", err)
	}
	if rec.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", rec.NumRows())
	}
	want := map[string]string{
		"companyFilingName": "X",
		"description":       "d",
		"filingDate":        "2020-02-01",
		"filingStatus":      "F",
		"patentType":        "U",
		"url":               "http://u",
	}
	for col, val := range want {
		if got := rec.Cell(0, col).String(); got != val {
			t.Errorf("Cell(0, %s) = %q, want %q", col, got, val)
		}
	}
}

func TestVisaApplicationsSingleNested(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"jobTitle":"Engineer","beginDate":"2020-03-01","wageRangeFrom":120000}]}`))
	})

	rec, err := c.VisaApplications(context.Background(), "AAPL", "2020-01-01")
	if err != nil {
		t.Fatalf("VisaApplications: %v", err)
	}
	if rec.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", rec.NumRows())
	}
	if got := rec.Cell(0, "jobTitle").String(); got != "Engineer" {
		t.Errorf("jobTitle = %q, want Engineer", got)
	}
}

func TestVisaApplicationsDoubleNested(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"data":[{"jobTitle":"Engineer"},{"jobTitle":"Analyst"}]},{"data":[{"jobTitle":"Manager"}]}]}`))
	})

	rec, err := c.VisaApplications(context.Background(), "AAPL", "2020-01-01")
	if err != nil {
		t.Fatalf("VisaApplications: %v", err)
	}
	if rec.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", rec.NumRows())
	}
	for i, want := range []string{"Engineer", "Analyst", "Manager"} {
		if got := rec.Cell(i, "jobTitle").String(); got != want {
			t.Errorf("row %d jobTitle = %q, want %q", i, got, want)
		}
	}
}

func TestVisaApplicationsMissingDataKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"AAPL"}`))
	})

	rec, err := c.VisaApplications(context.Background(), "AAPL", "2020-01-01")
	if err != nil {
		t.Fatalf("VisaApplications: %v", err)
	}
	if rec.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0", rec.NumRows())
	}
	// consumers detect the absence through the missing column
	if _, err := rec.Column("jobTitle"); !errors.IsMissingColumn(err) {
		t.Errorf("Column(jobTitle) err = %v, want MissingColumnError", err)
	}
}

func TestSECFilingsTopLevelList(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"accessNumber":"1","form":"10-K"},{"accessNumber":"2","form":"10-Q"}]`))
	})

	rec, err := c.SECFilings(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("SECFilings: %v", err)
	}
	if rec.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", rec.NumRows())
	}
	if got := rec.Cell(1, "form").String(); got != "10-Q" {
		t.Errorf("row 1 form = %q, want 10-Q", got)
	}
}

func TestSearchTickerEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "apple" {
			t.Errorf("q = %q, want apple", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"count":1,"result":[{"symbol":"AAPL","description":"APPLE INC"}]}`))
	})

	rec, err := c.SearchTicker(context.Background(), "apple")
	if err != nil {
		t.Fatalf("SearchTicker: %v", err)
	}
	if rec.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", rec.NumRows())
	}
	if got := rec.Cell(0, "symbol").String(); got != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", got)
	}
}

func TestEarningsCalendarEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"earningsCalendar":[{"date":"2024-05-02","epsEstimate":1.5}]}`))
	})

	rec, err := c.EarningsCalendar(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("EarningsCalendar: %v", err)
	}
	if rec.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", rec.NumRows())
	}
	if got, ok := rec.Cell(0, "epsEstimate").Float(); !ok || got != 1.5 {
		t.Errorf("epsEstimate = %v, want 1.5", got)
	}
}
