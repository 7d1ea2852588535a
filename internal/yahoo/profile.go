package yahoo

import (
	"context"
	"encoding/json"

	"equitydash/internal/errors"
	"equitydash/internal/models"
	"equitydash/internal/table"
)

type quoteSummaryParams struct {
	Modules string `url:"modules"`
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiProblem          `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	AssetProfile *struct {
		Website             string `json:"website"`
		LongBusinessSummary string `json:"longBusinessSummary"`
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
	} `json:"assetProfile"`
	Price *struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortName"`
	} `json:"price"`
	MajorHoldersBreakdown *struct {
		InsidersPercentHeld          *rawValue `json:"insidersPercentHeld"`
		InstitutionsPercentHeld      *rawValue `json:"institutionsPercentHeld"`
		InstitutionsFloatPercentHeld *rawValue `json:"institutionsFloatPercentHeld"`
		InstitutionsCount            *rawValue `json:"institutionsCount"`
	} `json:"majorHoldersBreakdown"`
	InstitutionOwnership *ownership `json:"institutionOwnership"`
	FundOwnership        *ownership `json:"fundOwnership"`
}

type ownership struct {
	OwnershipList []struct {
		Organization string    `json:"organization"`
		ReportDate   *rawValue `json:"reportDate"`
		PctHeld      *rawValue `json:"pctHeld"`
		Position     *rawValue `json:"position"`
		Value        *rawValue `json:"value"`
	} `json:"ownershipList"`
}

type rawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// Info returns descriptive company metadata. Absent fields stay blank;
// a symbol with no profile at all is still a usable zero profile.
func (c *Client) Info(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	result, err := c.quoteSummary(ctx, symbol, "assetProfile,price")
	if err != nil {
		return nil, err
	}

	profile := &models.CompanyProfile{Symbol: symbol}
	if p := result.Price; p != nil {
		profile.ShortName = p.ShortName
		if p.Symbol != "" {
			profile.Symbol = p.Symbol
		}
	}
	if a := result.AssetProfile; a != nil {
		profile.Website = a.Website
		profile.Summary = a.LongBusinessSummary
		profile.Sector = a.Sector
		profile.Industry = a.Industry
	}
	return profile, nil
}

// MajorHolders returns the ownership breakdown as labeled percentage
// rows. A symbol without the module yields an empty record.
func (c *Client) MajorHolders(ctx context.Context, symbol string) (*table.Record, error) {
	result, err := c.quoteSummary(ctx, symbol, "majorHoldersBreakdown")
	if err != nil {
		return nil, err
	}

	rec := table.New("Breakdown", "Value")
	b := result.MajorHoldersBreakdown
	if b == nil {
		return rec, nil
	}
	appendBreakdown(rec, "% of Shares Held by All Insiders", b.InsidersPercentHeld)
	appendBreakdown(rec, "% of Shares Held by Institutions", b.InstitutionsPercentHeld)
	appendBreakdown(rec, "% of Float Held by Institutions", b.InstitutionsFloatPercentHeld)
	appendBreakdown(rec, "Number of Institutions Holding Shares", b.InstitutionsCount)
	return rec, nil
}

func appendBreakdown(rec *table.Record, label string, v *rawValue) {
	if v == nil {
		return
	}
	rec.AppendRow(map[string]table.Value{
		"Breakdown": table.String(label),
		"Value":     table.Float(v.Raw),
	})
}

// InstitutionalHolders returns the largest institutional positions.
func (c *Client) InstitutionalHolders(ctx context.Context, symbol string) (*table.Record, error) {
	result, err := c.quoteSummary(ctx, symbol, "institutionOwnership")
	if err != nil {
		return nil, err
	}
	return ownershipRecord(result.InstitutionOwnership), nil
}

// MutualFundHolders returns the largest mutual-fund positions.
func (c *Client) MutualFundHolders(ctx context.Context, symbol string) (*table.Record, error) {
	result, err := c.quoteSummary(ctx, symbol, "fundOwnership")
	if err != nil {
		return nil, err
	}
	return ownershipRecord(result.FundOwnership), nil
}

func ownershipRecord(o *ownership) *table.Record {
	rec := table.New("Holder", "Date Reported", "% Out", "Shares", "Value")
	if o == nil {
		return rec
	}
	for _, h := range o.OwnershipList {
		row := map[string]table.Value{
			"Holder": table.String(h.Organization),
		}
		if h.ReportDate != nil {
			row["Date Reported"] = table.String(h.ReportDate.Fmt)
		}
		if h.PctHeld != nil {
			row["% Out"] = table.Float(h.PctHeld.Raw)
		}
		if h.Position != nil {
			row["Shares"] = table.Float(h.Position.Raw)
		}
		if h.Value != nil {
			row["Value"] = table.Float(h.Value.Raw)
		}
		rec.AppendRow(row)
	}
	return rec
}

func (c *Client) quoteSummary(ctx context.Context, symbol, modules string) (*quoteSummaryResult, error) {
	body, err := c.get(ctx, "/v10/finance/quoteSummary/"+symbol, quoteSummaryParams{Modules: modules})
	if err != nil {
		return nil, err
	}

	var envelope quoteSummaryEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding quote summary payload")
	}
	if p := envelope.QuoteSummary.Error; p != nil {
		return nil, errors.NewDataError("quote_summary", symbol, p.Description, nil)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, errors.NewDataError("quote_summary", symbol, "payload has no result", errors.ErrNoData)
	}
	return &envelope.QuoteSummary.Result[0], nil
}
