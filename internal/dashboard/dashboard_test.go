package dashboard

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"equitydash/internal/config"
	"equitydash/internal/errors"
	"equitydash/internal/models"
	"equitydash/internal/table"
)

type fakeMarket struct {
	noDividends bool
}

func (f *fakeMarket) PriceHistory(_ context.Context, _ string, _ models.Range, _ models.Interval) ([]models.PriceBar, error) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, 0, 10)
	for i := 0; i < 10; i++ {
		bars = append(bars, models.PriceBar{
			Date:   base.AddDate(0, 0, 7*i),
			Open:   100 + float64(i),
			High:   105 + float64(i),
			Low:    95 + float64(i),
			Close:  102 + float64(i),
			Volume: 1000000,
		})
	}
	return bars, nil
}

func (f *fakeMarket) Dividends(_ context.Context, _ string, _ models.Range) ([]models.DividendEvent, error) {
	if f.noDividends {
		return nil, errors.ErrNoDividendData
	}
	return []models.DividendEvent{
		{Date: time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), Amount: 0.24},
	}, nil
}

func (f *fakeMarket) Info(_ context.Context, symbol string) (*models.CompanyProfile, error) {
	return &models.CompanyProfile{
		Symbol:    symbol,
		ShortName: "Apple Inc.",
		Sector:    "Technology",
		Industry:  "Consumer Electronics",
		Website:   "https://www.apple.com",
	}, nil
}

func (f *fakeMarket) MajorHolders(_ context.Context, _ string) (*table.Record, error) {
	rec := table.New("Breakdown", "Value")
	rec.AppendRow(map[string]table.Value{
		"Breakdown": table.String("% of Shares Held by All Insiders"),
		"Value":     table.Float(0.0006),
	})
	return rec, nil
}

func (f *fakeMarket) InstitutionalHolders(_ context.Context, _ string) (*table.Record, error) {
	rec := table.New("Holder", "% Out", "Shares", "Value")
	rec.AppendRow(map[string]table.Value{
		"Holder": table.String("Vanguard Group Inc"),
		"% Out":  table.Float(0.0875),
		"Shares": table.Float(1354000000),
		"Value":  table.Float(251000000000),
	})
	return rec, nil
}

func (f *fakeMarket) MutualFundHolders(_ context.Context, _ string) (*table.Record, error) {
	return table.New("Holder", "Shares"), nil
}

type fakeAncillary struct {
	patentsEmpty bool
	visaEmpty    bool
}

func (f *fakeAncillary) Patents(_ context.Context, _, _ string) (*table.Record, error) {
	if f.patentsEmpty {
		return table.Flatten(nil), nil
	}
	return table.Flatten([]interface{}{map[string]interface{}{
		"companyFilingName": "APPLE INC",
		"description":       "Display housing",
		"filingDate":        "2020-02-01",
		"filingStatus":      "Filed",
		"patentType":        "Utility",
		"url":               "http://example.com/patent",
	}}), nil
}

func (f *fakeAncillary) VisaApplications(_ context.Context, _, _ string) (*table.Record, error) {
	if f.visaEmpty {
		// the provider answered but without the expected payload shape
		return table.Flatten(nil), nil
	}
	return table.Flatten([]interface{}{map[string]interface{}{
		"jobTitle":         "Engineer",
		"fullTimePosition": "Y",
		"beginDate":        "2020-03-01",
		"endDate":          "2023-03-01",
		"worksiteCity":     "Cupertino",
		"wageRangeFrom":    140000.0,
		"wageRangeTo":      180000.0,
	}}), nil
}

type fakeFinancials struct{}

func (fakeFinancials) Financials(_ context.Context, ticker string) (*table.Record, error) {
	rec := table.New("Date", "Ticker", "Total Revenue", "Net Income", "Diluted EPS",
		"Gross Profit", "Operating Income", "Free Cash Flow", "Total Debt",
		"Total Equity Gross Minority Interest", "Repurchase Of Capital Stock",
		"Earnings %", "Debt to Equity")
	for i, date := range []string{"2024-03-31", "2024-06-30"} {
		rec.AppendRow(map[string]table.Value{
			"Date":                                 table.String(date),
			"Ticker":                               table.String(ticker),
			"Total Revenue":                        table.Float(90000 - float64(i)*5000),
			"Net Income":                           table.Float(23000),
			"Diluted EPS":                          table.Float(1.5),
			"Gross Profit":                         table.Float(41000),
			"Operating Income":                     table.Float(27000),
			"Free Cash Flow":                       table.Float(20000),
			"Total Debt":                           table.Float(104000),
			"Total Equity Gross Minority Interest": table.Float(74000),
			"Repurchase Of Capital Stock":          table.Float(-23500),
			"Earnings %":                           table.Float(25.5),
			"Debt to Equity":                       table.Float(140.5),
		})
	}
	return rec, nil
}

func newTestDashboard(t *testing.T, market *fakeMarket, ancillary AncillaryData) (*Dashboard, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	d := New(Deps{
		Market:     market,
		Ancillary:  ancillary,
		Financials: fakeFinancials{},
		Config: config.DashboardConfig{
			OutputDir:     dir,
			PriceRange:    "3y",
			PriceInterval: "1wk",
		},
		Out:    &buf,
		Logger: zerolog.Nop(),
	})
	return d, &buf, dir
}

func TestRunWritesChartPage(t *testing.T) {
	d, out, dir := newTestDashboard(t, &fakeMarket{}, &fakeAncillary{})

	if err := d.Run(context.Background(), "AAPL", "2020-01-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	page, err := os.ReadFile(filepath.Join(dir, "AAPL.html"))
	if err != nil {
		t.Fatalf("chart page not written: %v", err)
	}
	for _, want := range []string{"Profit Breakdown", "Revenue Breakdown", "Stock Buybacks", "Dividends"} {
		if !strings.Contains(string(page), want) {
			t.Errorf("chart page missing %q", want)
		}
	}

	text := out.String()
	for _, want := range []string{"Apple Inc.", "MAJOR HOLDERS", "Vanguard Group Inc", "USPTO PATENTS", "VISA APPLICATIONS", "Engineer"} {
		if !strings.Contains(text, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
	if strings.Contains(text, "NO DIVIDEND DATA") {
		t.Error("dividend notice printed despite dividend data")
	}
}

func TestRunNoDividendsPrintsNotice(t *testing.T) {
	d, out, _ := newTestDashboard(t, &fakeMarket{noDividends: true}, &fakeAncillary{})

	if err := d.Run(context.Background(), "AAPL", "2020-01-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "NO DIVIDEND DATA") {
		t.Error("expected NO DIVIDEND DATA notice")
	}
}

func TestRunMissingAncillaryPrintsNotices(t *testing.T) {
	d, out, _ := newTestDashboard(t, &fakeMarket{}, &fakeAncillary{patentsEmpty: true, visaEmpty: true})

	if err := d.Run(context.Background(), "AAPL", "2020-01-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "NO PATENT DATA") {
		t.Error("expected NO PATENT DATA notice")
	}
	if !strings.Contains(text, "NO VISA DATA") {
		t.Error("expected NO VISA DATA notice")
	}
}

func TestRunWithoutAncillaryProvider(t *testing.T) {
	d, out, _ := newTestDashboard(t, &fakeMarket{}, nil)

	if err := d.Run(context.Background(), "AAPL", "2020-01-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	if strings.Contains(text, "USPTO PATENTS") {
		t.Error("patent section printed without a provider")
	}
}

func TestRunFormatsHolderNumbers(t *testing.T) {
	d, out, _ := newTestDashboard(t, &fakeMarket{}, nil)

	if err := d.Run(context.Background(), "AAPL", "2020-01-01"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	wants := []string{
		"Last close $111.00",
		"1,354,000,000", // shares grouped
		"8.75%",         // held fraction as a percentage
		"251.00B",       // position value in compact form
		"0.06%",         // insider breakdown fraction
	}
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
	if strings.Contains(text, "1354000000") {
		t.Error("raw share count printed unformatted")
	}
}

func TestProjectMissingColumns(t *testing.T) {
	rec := table.Flatten([]interface{}{map[string]interface{}{"unexpected": 1.0}})
	if _, ok := project(rec, patentColumns); ok {
		t.Error("project must reject a record lacking every expected column")
	}

	if _, ok := project(table.Flatten(nil), patentColumns); ok {
		t.Error("project must reject an empty record")
	}
}
