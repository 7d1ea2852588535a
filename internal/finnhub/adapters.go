package finnhub

import (
	"context"
	"encoding/json"

	"equitydash/internal/errors"
	"equitydash/internal/table"
)

type searchParams struct {
	Query string `url:"q"`
}

type symbolParams struct {
	Symbol string `url:"symbol"`
}

type symbolFromParams struct {
	Symbol string `url:"symbol"`
	From   string `url:"from,omitempty"`
}

// SearchTicker looks up ticker symbols matching the query.
func (c *Client) SearchTicker(ctx context.Context, q string) (*table.Record, error) {
	body, err := c.Get(ctx, "/search", searchParams{Query: q})
	if err != nil {
		return nil, err
	}
	return tabulateEnvelope(body, "result")
}

// SECFilings returns recent SEC filings for the symbol.
func (c *Client) SECFilings(ctx context.Context, symbol string) (*table.Record, error) {
	body, err := c.Get(ctx, "/stock/filings", symbolParams{Symbol: symbol})
	if err != nil {
		return nil, err
	}
	return tabulateList(body)
}

// AnalystRecommendations returns analyst recommendation trends.
func (c *Client) AnalystRecommendations(ctx context.Context, symbol string) (*table.Record, error) {
	body, err := c.Get(ctx, "/stock/recommendation", symbolParams{Symbol: symbol})
	if err != nil {
		return nil, err
	}
	return tabulateList(body)
}

// EPSSurprises returns historical EPS surprises.
func (c *Client) EPSSurprises(ctx context.Context, symbol string) (*table.Record, error) {
	body, err := c.Get(ctx, "/stock/earnings", symbolParams{Symbol: symbol})
	if err != nil {
		return nil, err
	}
	return tabulateList(body)
}

// EarningsCalendar returns upcoming and historical earnings dates.
func (c *Client) EarningsCalendar(ctx context.Context, symbol string) (*table.Record, error) {
	body, err := c.Get(ctx, "/calendar/earnings", symbolParams{Symbol: symbol})
	if err != nil {
		return nil, err
	}
	return tabulateEnvelope(body, "earningsCalendar")
}

// Patents returns USPTO patent applications filed since from (inclusive,
// YYYY-MM-DD).
func (c *Client) Patents(ctx context.Context, symbol, from string) (*table.Record, error) {
	body, err := c.Get(ctx, "/stock/uspto-patent", symbolFromParams{Symbol: symbol, From: from})
	if err != nil {
		return nil, err
	}
	return tabulateEnvelope(body, "data")
}

// SenateLobbying returns senate lobbying activity since from.
func (c *Client) SenateLobbying(ctx context.Context, symbol, from string) (*table.Record, error) {
	body, err := c.Get(ctx, "/stock/lobbying", symbolFromParams{Symbol: symbol, From: from})
	if err != nil {
		return nil, err
	}
	return tabulateEnvelope(body, "data")
}

// VisaApplications returns H1B visa applications since from. The
// provider has shipped both a singly and a doubly nested payload for
// this endpoint, so a second flatten runs only when the first pass
// still carries a nested data column.
func (c *Client) VisaApplications(ctx context.Context, symbol, from string) (*table.Record, error) {
	body, err := c.Get(ctx, "/stock/visa-application", symbolFromParams{Symbol: symbol, From: from})
	if err != nil {
		return nil, err
	}
	rec, err := tabulateEnvelope(body, "data")
	if err != nil {
		return nil, err
	}
	if !rec.HasColumn("data") {
		return rec, nil
	}
	inner, err := rec.Column("data")
	if err != nil {
		return nil, err
	}
	cells := make([]interface{}, len(inner))
	for i, v := range inner {
		cells[i] = v.Any()
	}
	return table.Flatten(cells), nil
}

// tabulateList decodes a top-level JSON array of objects into a record,
// one row per element.
func tabulateList(body []byte) (*table.Record, error) {
	var list []interface{}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.Wrap(err, "decoding list payload")
	}
	return table.Flatten(list), nil
}

// tabulateEnvelope decodes a JSON object and tabulates the array found
// under key. A payload without the key yields the empty record; the
// caller discovers the absence through missing columns.
func tabulateEnvelope(body []byte, key string) (*table.Record, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding payload envelope")
	}
	raw, ok := envelope[key]
	if !ok {
		return table.Flatten(nil), nil
	}
	var list []interface{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.Wrapf(err, "decoding %q payload", key)
	}
	return table.Flatten(list), nil
}
