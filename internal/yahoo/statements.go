package yahoo

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"equitydash/internal/errors"
	"equitydash/internal/models"
	"equitydash/internal/table"
)

// Metric keys requested per quarterly statement. Yahoo serves each key
// as its own timeseries; a key the provider has no data for simply
// comes back empty and drops out of the statement.
var (
	incomeMetrics = []string{
		"quarterlyTotalRevenue",
		"quarterlyCostOfRevenue",
		"quarterlyGrossProfit",
		"quarterlyOperatingExpense",
		"quarterlyOperatingIncome",
		"quarterlyPretaxIncome",
		"quarterlyTaxProvision",
		"quarterlyNetIncome",
		"quarterlyBasicEPS",
		"quarterlyDilutedEPS",
		"quarterlyEBITDA",
	}
	balanceMetrics = []string{
		"quarterlyTotalAssets",
		"quarterlyCurrentAssets",
		"quarterlyCashAndCashEquivalents",
		"quarterlyTotalLiabilitiesNetMinorityInterest",
		"quarterlyCurrentLiabilities",
		"quarterlyTotalDebt",
		"quarterlyTotalEquityGrossMinorityInterest",
		"quarterlyStockholdersEquity",
		"quarterlyWorkingCapital",
	}
	cashflowMetrics = []string{
		"quarterlyOperatingCashFlow",
		"quarterlyInvestingCashFlow",
		"quarterlyFinancingCashFlow",
		"quarterlyCapitalExpenditure",
		"quarterlyFreeCashFlow",
		"quarterlyRepurchaseOfCapitalStock",
		"quarterlyCashDividendsPaid",
	}
)

type timeseriesParams struct {
	Symbol  string `url:"symbol"`
	Type    string `url:"type"`
	Period1 int64  `url:"period1"`
	Period2 int64  `url:"period2"`
}

type timeseriesEnvelope struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *apiProblem       `json:"error"`
	} `json:"timeseries"`
}

type apiProblem struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type tsMeta struct {
	Meta struct {
		Type []string `json:"type"`
	} `json:"meta"`
}

type tsPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue *struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

// Statements fetches the three quarterly statements. Each record has
// metric display names as row labels and report dates (ascending) as
// column labels, so transposing one yields date rows with metric
// columns.
func (c *Client) Statements(ctx context.Context, symbol string) (income, balance, cashflow *table.Record, err error) {
	income, err = c.statement(ctx, symbol, incomeMetrics)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "fetching %s statement", models.StatementIncome)
	}
	balance, err = c.statement(ctx, symbol, balanceMetrics)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "fetching %s statement", models.StatementBalance)
	}
	cashflow, err = c.statement(ctx, symbol, cashflowMetrics)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "fetching %s statement", models.StatementCashflow)
	}
	return income, balance, cashflow, nil
}

func (c *Client) statement(ctx context.Context, symbol string, metrics []string) (*table.Record, error) {
	now := time.Now()
	body, err := c.get(ctx, "/ws/fundamentals-timeseries/v1/finance/timeseries/"+symbol, timeseriesParams{
		Symbol:  symbol,
		Type:    strings.Join(metrics, ","),
		Period1: now.AddDate(-5, 0, 0).Unix(),
		Period2: now.Unix(),
	})
	if err != nil {
		return nil, err
	}
	return decodeStatement(body, metrics)
}

// decodeStatement builds one statement record from a timeseries
// response. Metric rows follow the request order; date columns are the
// sorted union of report dates across metrics. Dates a metric never
// reported stay missing.
func decodeStatement(body []byte, metrics []string) (*table.Record, error) {
	var envelope timeseriesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding timeseries payload")
	}
	if p := envelope.Timeseries.Error; p != nil {
		return nil, errors.NewDataError("timeseries", "", p.Description, nil)
	}

	series := make(map[string]map[string]float64, len(metrics))
	dateSet := make(map[string]struct{})
	for _, raw := range envelope.Timeseries.Result {
		var meta tsMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		key := meta.Meta.Type[0]

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		data, ok := fields[key]
		if !ok {
			continue
		}
		var points []*tsPoint
		if err := json.Unmarshal(data, &points); err != nil {
			continue
		}

		byDate := make(map[string]float64, len(points))
		for _, p := range points {
			if p == nil || p.ReportedValue == nil || p.AsOfDate == "" {
				continue
			}
			byDate[p.AsOfDate] = p.ReportedValue.Raw
			dateSet[p.AsOfDate] = struct{}{}
		}
		if len(byDate) > 0 {
			series[key] = byDate
		}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rec := table.New(dates...)
	var labels []string
	for _, key := range metrics {
		byDate, ok := series[key]
		if !ok {
			continue
		}
		row := make(map[string]table.Value, len(byDate))
		for d, v := range byDate {
			row[d] = table.Float(v)
		}
		rec.AppendRow(row)
		labels = append(labels, displayName(key))
	}
	if err := rec.SetIndex("Metric", labels); err != nil {
		return nil, err
	}
	return rec, nil
}
