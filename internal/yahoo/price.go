package yahoo

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"equitydash/internal/errors"
	"equitydash/internal/models"
)

type chartParams struct {
	Range    string `url:"range"`
	Interval string `url:"interval"`
	Events   string `url:"events,omitempty"`
}

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiProblem   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp []int64 `json:"timestamp"`
	Events    *struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// PriceHistory returns OHLCV bars for the trailing window, ascending by
// date. Bars the provider left without a close are dropped.
func (c *Client) PriceHistory(ctx context.Context, symbol string, rng models.Range, interval models.Interval) ([]models.PriceBar, error) {
	result, err := c.chart(ctx, symbol, chartParams{
		Range:    string(rng),
		Interval: string(interval),
	})
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.NewDataError("price_history", symbol, "payload has no quote series", errors.ErrNoData)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(a, b int) bool { return bars[a].Date.Before(bars[b].Date) })
	return bars, nil
}

// Dividends returns dated per-share dividend payments over the trailing
// window, ascending. A symbol with no dividend history returns
// ErrNoDividendData; callers surface a notice, not a failure.
func (c *Client) Dividends(ctx context.Context, symbol string, rng models.Range) ([]models.DividendEvent, error) {
	result, err := c.chart(ctx, symbol, chartParams{
		Range:    string(rng),
		Interval: string(models.IntervalWeekly),
		Events:   "div",
	})
	if err != nil {
		return nil, err
	}
	if result.Events == nil || len(result.Events.Dividends) == 0 {
		return nil, errors.ErrNoDividendData
	}

	events := make([]models.DividendEvent, 0, len(result.Events.Dividends))
	for _, d := range result.Events.Dividends {
		events = append(events, models.DividendEvent{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(events, func(a, b int) bool { return events[a].Date.Before(events[b].Date) })
	return events, nil
}

func (c *Client) chart(ctx context.Context, symbol string, params chartParams) (*chartResult, error) {
	body, err := c.get(ctx, "/v8/finance/chart/"+symbol, params)
	if err != nil {
		return nil, err
	}

	var envelope chartEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding chart payload")
	}
	if p := envelope.Chart.Error; p != nil {
		return nil, errors.NewDataError("chart", symbol, p.Description, nil)
	}
	if len(envelope.Chart.Result) == 0 {
		return nil, errors.NewDataError("chart", symbol, "payload has no result", errors.ErrNoData)
	}
	return &envelope.Chart.Result[0], nil
}
