package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"equitydash/internal/errors"
	"equitydash/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(zerolog.Nop(), WithBaseURL(srv.URL))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"quarterlyTotalRevenue", "Total Revenue"},
		{"quarterlyNetIncome", "Net Income"},
		{"quarterlyDilutedEPS", "Diluted EPS"},
		{"quarterlyEBITDA", "EBITDA"},
		{"quarterlyTotalEquityGrossMinorityInterest", "Total Equity Gross Minority Interest"},
		{"quarterlyRepurchaseOfCapitalStock", "Repurchase Of Capital Stock"},
		{"annualTotalDebt", "Total Debt"},
	}
	for _, tc := range tests {
		if got := displayName(tc.key); got != tc.want {
			t.Errorf("displayName(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

const timeseriesFixture = `{"timeseries":{"result":[
  {"meta":{"symbol":["AAPL"],"type":["quarterlyTotalRevenue"]},
   "timestamp":[1711843200,1719705600],
   "quarterlyTotalRevenue":[
     {"asOfDate":"2024-03-31","periodType":"3M","reportedValue":{"raw":90000000000,"fmt":"90B"}},
     {"asOfDate":"2024-06-30","periodType":"3M","reportedValue":{"raw":85000000000,"fmt":"85B"}}]},
  {"meta":{"symbol":["AAPL"],"type":["quarterlyNetIncome"]},
   "timestamp":[1711843200],
   "quarterlyNetIncome":[
     {"asOfDate":"2024-03-31","periodType":"3M","reportedValue":{"raw":23000000000,"fmt":"23B"}},
     null]},
  {"meta":{"symbol":["AAPL"],"type":["quarterlyDilutedEPS"]},
   "timestamp":[]}
],"error":null}}`

func TestDecodeStatement(t *testing.T) {
	rec, err := decodeStatement([]byte(timeseriesFixture), incomeMetrics)
	if err != nil {
		t.Fatalf("decodeStatement: %v", err)
	}

	// rows are metrics that returned data, labeled by display name
	if got := rec.Index(); len(got) != 2 || got[0] != "Total Revenue" || got[1] != "Net Income" {
		t.Fatalf("Index() = %v, want [Total Revenue, Net Income]", got)
	}
	// columns are the sorted union of report dates
	if got := rec.Columns(); len(got) != 2 || got[0] != "2024-03-31" || got[1] != "2024-06-30" {
		t.Fatalf("Columns() = %v, want [2024-03-31, 2024-06-30]", got)
	}
	if got, _ := rec.Cell(0, "2024-06-30").Float(); got != 85000000000 {
		t.Errorf("revenue 2024-06-30 = %v, want 85000000000", got)
	}
	// net income was never reported for the second date
	if v := rec.Cell(1, "2024-06-30"); !v.IsMissing() {
		t.Errorf("net income 2024-06-30 = %v, want missing", v)
	}
}

func TestStatementsRequestsQuarterlyKeys(t *testing.T) {
	var types []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		types = append(types, r.URL.Query().Get("type"))
		w.Write([]byte(`{"timeseries":{"result":[],"error":null}}`))
	})

	_, _, _, err := c.Statements(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	if len(types) != 3 {
		t.Fatalf("got %d requests, want 3", len(types))
	}
	if !strings.Contains(types[0], "quarterlyTotalRevenue") {
		t.Errorf("income request types = %q", types[0])
	}
	if !strings.Contains(types[1], "quarterlyTotalDebt") {
		t.Errorf("balance request types = %q", types[1])
	}
	if !strings.Contains(types[2], "quarterlyRepurchaseOfCapitalStock") {
		t.Errorf("cashflow request types = %q", types[2])
	}
}

const chartFixture = `{"chart":{"result":[{
  "timestamp":[1704067200,1704672000,1705276800],
  "events":{"dividends":{"1704672000":{"amount":0.24,"date":1704672000}}},
  "indicators":{"quote":[{
    "open":[184.1,181.5,null],
    "high":[186.7,185.2,183.0],
    "low":[182.0,180.1,181.2],
    "close":[185.6,183.3,182.7],
    "volume":[52000000,47000000,43000000]
  }]}}],"error":null}}`

func TestPriceHistoryAscending(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("range"); got != "3y" {
			t.Errorf("range = %q, want 3y", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1wk" {
			t.Errorf("interval = %q, want 1wk", got)
		}
		w.Write([]byte(chartFixture))
	})

	bars, err := c.PriceHistory(context.Background(), "AAPL", models.RangeThreeYears, models.IntervalWeekly)
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("len(bars) = %d, want 3", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Errorf("bars not ascending at %d: %v >= %v", i, bars[i-1].Date, bars[i].Date)
		}
	}
	if bars[0].Close != 185.6 {
		t.Errorf("bars[0].Close = %v, want 185.6", bars[0].Close)
	}
	// a null open is tolerated, the bar survives on its close
	if bars[2].Open != 0 || bars[2].Close != 182.7 {
		t.Errorf("bars[2] = %+v, want zero open with close 182.7", bars[2])
	}
}

func TestDividends(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("events"); got != "div" {
			t.Errorf("events = %q, want div", got)
		}
		w.Write([]byte(chartFixture))
	})

	events, err := c.Dividends(context.Background(), "AAPL", models.RangeThreeYears)
	if err != nil {
		t.Fatalf("Dividends: %v", err)
	}
	if len(events) != 1 || events[0].Amount != 0.24 {
		t.Fatalf("events = %+v, want one 0.24 payment", events)
	}
}

func TestDividendsNoneIsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	})

	_, err := c.Dividends(context.Background(), "BRK-A", models.RangeThreeYears)
	if !errors.Is(err, errors.ErrNoDividendData) {
		t.Fatalf("err = %v, want ErrNoDividendData", err)
	}
}

const quoteSummaryFixture = `{"quoteSummary":{"result":[{
  "price":{"symbol":"AAPL","shortName":"Apple Inc."},
  "assetProfile":{"website":"https://www.apple.com","longBusinessSummary":"Designs smartphones.","sector":"Technology","industry":"Consumer Electronics"},
  "majorHoldersBreakdown":{"insidersPercentHeld":{"raw":0.00062,"fmt":"0.06%"},"institutionsPercentHeld":{"raw":0.616,"fmt":"61.60%"},"institutionsFloatPercentHeld":{"raw":0.6164,"fmt":"61.64%"},"institutionsCount":{"raw":6453,"fmt":"6.45k"}},
  "institutionOwnership":{"ownershipList":[
    {"organization":"Vanguard Group Inc","reportDate":{"raw":1711843200,"fmt":"2024-03-31"},"pctHeld":{"raw":0.0877,"fmt":"8.77%"},"position":{"raw":1354000000,"fmt":"1.35B"},"value":{"raw":232000000000,"fmt":"232B"}}]}
}],"error":null}}`

func TestInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryFixture))
	})

	profile, err := c.Info(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if profile.ShortName != "Apple Inc." {
		t.Errorf("ShortName = %q, want Apple Inc.", profile.ShortName)
	}
	if profile.Website != "https://www.apple.com" {
		t.Errorf("Website = %q", profile.Website)
	}
	if profile.Sector != "Technology" {
		t.Errorf("Sector = %q, want Technology", profile.Sector)
	}
}

func TestHolders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryFixture))
	})

	major, err := c.MajorHolders(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("MajorHolders: %v", err)
	}
	if major.NumRows() != 4 {
		t.Fatalf("major holders rows = %d, want 4", major.NumRows())
	}
	if got, _ := major.Cell(1, "Value").Float(); got != 0.616 {
		t.Errorf("institutions pct = %v, want 0.616", got)
	}

	inst, err := c.InstitutionalHolders(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("InstitutionalHolders: %v", err)
	}
	if inst.NumRows() != 1 {
		t.Fatalf("institutional rows = %d, want 1", inst.NumRows())
	}
	if got := inst.Cell(0, "Holder").String(); got != "Vanguard Group Inc" {
		t.Errorf("Holder = %q", got)
	}
	if got := inst.Cell(0, "Date Reported").String(); got != "2024-03-31" {
		t.Errorf("Date Reported = %q, want 2024-03-31", got)
	}
}

func TestMissingDatasetIsEmptyRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{}],"error":null}}`))
	})

	rec, err := c.MutualFundHolders(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("MutualFundHolders: %v", err)
	}
	if rec.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0", rec.NumRows())
	}
}
