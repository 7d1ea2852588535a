// Package fundamentals aggregates quarterly statements into the long
// financial record the dashboard and bulk views consume.
package fundamentals

import (
	"context"

	"github.com/rs/zerolog"

	"equitydash/internal/errors"
	"equitydash/internal/table"
)

// StatementSource supplies the three quarterly statements for a symbol,
// each with metric row labels and date column labels.
type StatementSource interface {
	Statements(ctx context.Context, symbol string) (income, balance, cashflow *table.Record, err error)
}

// Aggregator builds financial records from a statement source.
type Aggregator struct {
	source StatementSource
	logger zerolog.Logger
}

// New creates an Aggregator.
func New(source StatementSource, logger zerolog.Logger) *Aggregator {
	return &Aggregator{source: source, logger: logger}
}

// Financials returns one long record for the ticker: one row per
// statement report date, columns for every metric any statement
// reported, a leading Date column, a Ticker column, and the two derived
// ratio columns. Statements often report slightly different dates, so
// rows from different statements stay distinct even when dates collide;
// consumers filter by the metrics they need.
func (a *Aggregator) Financials(ctx context.Context, ticker string) (*table.Record, error) {
	income, balance, cashflow, err := a.source.Statements(ctx, ticker)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching statements for %s", ticker)
	}

	transposed := make([]*table.Record, 0, 3)
	for _, stmt := range []*table.Record{income, balance, cashflow} {
		tr, err := stmt.Transpose()
		if err != nil {
			return nil, errors.Wrapf(err, "transposing statement for %s", ticker)
		}
		transposed = append(transposed, tr)
	}

	combined := table.Concat(transposed...)
	flat, err := combined.ResetIndex("Date")
	if err != nil {
		return nil, errors.Wrapf(err, "promoting date index for %s", ticker)
	}
	sorted, err := flat.SortBy("Date")
	if err != nil {
		return nil, errors.Wrapf(err, "sorting financials for %s", ticker)
	}

	n := sorted.NumRows()
	tickerCol := make([]table.Value, n)
	for i := range tickerCol {
		tickerCol[i] = table.String(ticker)
	}
	if err := sorted.AppendColumn("Ticker", tickerCol); err != nil {
		return nil, err
	}

	earnings := derivedRatio(sorted, "Net Income", "Total Revenue")
	if err := sorted.AppendColumn("Earnings %", earnings); err != nil {
		return nil, err
	}
	debtToEquity := derivedRatio(sorted, "Total Debt", "Total Equity Gross Minority Interest")
	if err := sorted.AppendColumn("Debt to Equity", debtToEquity); err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("ticker", ticker).
		Int("rows", sorted.NumRows()).
		Int("columns", len(sorted.Columns())).
		Msg("Financials assembled")

	return sorted, nil
}

// BulkFinancials builds one keyed record covering every ticker in input
// order. Duplicated tickers produce duplicated rows. Any per-ticker
// failure aborts the whole batch; downstream analytics assume a
// complete result, so there are no partial batches.
func (a *Aggregator) BulkFinancials(ctx context.Context, tickers []string) (*table.Record, error) {
	records := make([]*table.Record, 0, len(tickers))
	for _, ticker := range tickers {
		rec, err := a.Financials(ctx, ticker)
		if err != nil {
			return nil, errors.Wrapf(err, "bulk financials aborted at %s", ticker)
		}
		records = append(records, rec)
	}
	out := table.Concat(records...)
	out.SetKey("Ticker", "Date")
	return out, nil
}

// derivedRatio computes 100 * numerator / denominator per row. The
// value is missing when either side is missing or the denominator is
// zero; a column absent from every statement leaves the whole ratio
// missing.
func derivedRatio(rec *table.Record, numerator, denominator string) []table.Value {
	n := rec.NumRows()
	out := make([]table.Value, n)
	num := columnOrMissing(rec, numerator, n)
	den := columnOrMissing(rec, denominator, n)
	for i := 0; i < n; i++ {
		nv, nok := num[i].Float()
		dv, dok := den[i].Float()
		if !nok || !dok || dv == 0 {
			out[i] = table.Missing()
			continue
		}
		out[i] = table.Float(100 * nv / dv)
	}
	return out
}

func columnOrMissing(rec *table.Record, name string, n int) []table.Value {
	col, err := rec.Column(name)
	if err != nil {
		return make([]table.Value, n)
	}
	return col
}
