// Package dashboard assembles the single-ticker research view: one HTML
// page of charts plus the terminal tables that accompany it.
package dashboard

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/rs/zerolog"

	"equitydash/internal/config"
	"equitydash/internal/errors"
	"equitydash/internal/logging"
	"equitydash/internal/models"
	"equitydash/internal/table"
)

// MarketData is the market-data surface the dashboard consumes.
type MarketData interface {
	PriceHistory(ctx context.Context, symbol string, rng models.Range, interval models.Interval) ([]models.PriceBar, error)
	Dividends(ctx context.Context, symbol string, rng models.Range) ([]models.DividendEvent, error)
	Info(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	MajorHolders(ctx context.Context, symbol string) (*table.Record, error)
	InstitutionalHolders(ctx context.Context, symbol string) (*table.Record, error)
	MutualFundHolders(ctx context.Context, symbol string) (*table.Record, error)
}

// AncillaryData is the regulatory-dataset surface. It is nil when no
// provider token is configured; the dashboard then skips those tables.
type AncillaryData interface {
	Patents(ctx context.Context, symbol, from string) (*table.Record, error)
	VisaApplications(ctx context.Context, symbol, from string) (*table.Record, error)
}

// FinancialsSource supplies the aggregated quarterly record.
type FinancialsSource interface {
	Financials(ctx context.Context, ticker string) (*table.Record, error)
}

// Columns projected into the regulatory tables.
var (
	patentColumns = []string{"companyFilingName", "description", "filingDate", "filingStatus", "patentType", "url"}
	visaColumns   = []string{"jobTitle", "fullTimePosition", "beginDate", "endDate", "worksiteCity", "wageRangeFrom", "wageRangeTo"}
)

// Deps carries everything a dashboard run needs.
type Deps struct {
	Market     MarketData
	Ancillary  AncillaryData
	Financials FinancialsSource
	Config     config.DashboardConfig
	Out        io.Writer
	Logger     zerolog.Logger
}

// Dashboard renders the research view for one ticker.
type Dashboard struct {
	deps Deps
}

// New creates a Dashboard.
func New(deps Deps) *Dashboard {
	return &Dashboard{deps: deps}
}

// Run fetches every dataset for the ticker, writes the chart page to
// the configured output directory, and prints the tabular sections.
// The from date bounds the regulatory queries only. Absent datasets
// become printed notices; only transport and aggregation failures
// abort the run.
func (d *Dashboard) Run(ctx context.Context, ticker, from string) error {
	logger := logging.WithTicker(d.deps.Logger, ticker)
	out := d.deps.Out

	fin, err := d.deps.Financials.Financials(ctx, ticker)
	if err != nil {
		return errors.Wrapf(err, "aggregating financials for %s", ticker)
	}

	rng := models.Range(d.deps.Config.PriceRange)
	interval := models.Interval(d.deps.Config.PriceInterval)
	bars, err := d.deps.Market.PriceHistory(ctx, ticker, rng, interval)
	if err != nil {
		return errors.Wrapf(err, "fetching price history for %s", ticker)
	}

	dividends, err := d.deps.Market.Dividends(ctx, ticker, rng)
	if err != nil && !errors.Is(err, errors.ErrNoDividendData) {
		return errors.Wrapf(err, "fetching dividends for %s", ticker)
	}

	profile, err := d.deps.Market.Info(ctx, ticker)
	if err != nil {
		logger.Warn().Err(err).Msg("company profile unavailable")
		profile = &models.CompanyProfile{Symbol: ticker}
	}

	page := components.NewPage()
	page.PageTitle = ticker + " research"
	page.AddCharts(
		klineChart(ticker, bars),
		priceChart(ticker, bars, fin),
		volumeChart(bars),
		profitChart(fin),
		revenueChart(fin),
		debtEquityChart(fin),
		buybacksChart(fin),
	)
	if len(dividends) > 0 {
		page.AddCharts(dividendsChart(dividends))
	}

	path := filepath.Join(d.deps.Config.OutputDir, ticker+".html")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating chart page %s", path)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return errors.Wrapf(err, "rendering chart page %s", path)
	}
	logger.Info().Str("path", path).Msg("chart page written")

	printProfile(out, profile)
	printLastClose(out, bars)
	printProfitabilityNotes(out)
	if len(dividends) == 0 {
		printNotice(out, "NO DIVIDEND DATA")
	}
	d.printHolders(ctx, out, ticker, logger)
	d.printAncillary(ctx, out, ticker, from, logger)

	return nil
}

func (d *Dashboard) printHolders(ctx context.Context, out io.Writer, ticker string, logger zerolog.Logger) {
	sections := []struct {
		title  string
		fetch  func(context.Context, string) (*table.Record, error)
		format func(*table.Record) *table.Record
	}{
		{"Major Holders", d.deps.Market.MajorHolders, formatBreakdown},
		{"Institutional Holders", d.deps.Market.InstitutionalHolders, formatOwnership},
		{"Mutual Fund Holders", d.deps.Market.MutualFundHolders, formatOwnership},
	}
	for _, s := range sections {
		rec, err := s.fetch(ctx, ticker)
		if err != nil {
			logger.Warn().Err(err).Str("section", s.title).Msg("ownership data unavailable")
			continue
		}
		printSection(out, s.title, s.format(rec))
	}
}

func (d *Dashboard) printAncillary(ctx context.Context, out io.Writer, ticker, from string, logger zerolog.Logger) {
	if d.deps.Ancillary == nil {
		logger.Debug().Msg("no provider token, skipping regulatory datasets")
		return
	}

	patents, err := d.deps.Ancillary.Patents(ctx, ticker, from)
	if err != nil {
		logger.Warn().Err(err).Msg("patent data unavailable")
		printNotice(out, "NO PATENT DATA")
	} else if projected, ok := project(patents, patentColumns); ok {
		printSection(out, "USPTO Patents", projected)
	} else {
		printNotice(out, "NO PATENT DATA")
	}

	visas, err := d.deps.Ancillary.VisaApplications(ctx, ticker, from)
	if err != nil {
		logger.Warn().Err(err).Msg("visa data unavailable")
		printNotice(out, "NO VISA DATA")
	} else if projected, ok := project(visas, visaColumns); ok {
		printSection(out, "Visa Applications", projected)
	} else {
		printNotice(out, "NO VISA DATA")
	}
}

// project narrows rec to the named columns. The second return is false
// when rec has no rows or lacks every requested column, the two shapes
// an empty upstream produces.
func project(rec *table.Record, columns []string) (*table.Record, bool) {
	if rec.NumRows() == 0 {
		return nil, false
	}
	out := table.New(columns...)
	found := false
	for i := 0; i < rec.NumRows(); i++ {
		row := make(map[string]table.Value, len(columns))
		for _, c := range columns {
			if v := rec.Cell(i, c); !v.IsMissing() {
				row[c] = v
				found = true
			}
		}
		out.AppendRow(row)
	}
	if !found {
		return nil, false
	}
	return out, true
}
