package dashboard

import (
	"fmt"
	"io"
	"strings"

	"equitydash/internal/models"
	"equitydash/internal/table"
	"equitydash/pkg/utils"
)

const rule = " ===================================================================================================================================="

func printProfile(w io.Writer, p *models.CompanyProfile) {
	fmt.Fprintln(w, rule)
	name := p.ShortName
	if name == "" {
		name = p.Symbol
	}
	fmt.Fprintf(w, " %s (%s)\n", name, p.Symbol)
	if p.Sector != "" || p.Industry != "" {
		fmt.Fprintf(w, " %s / %s\n", p.Sector, p.Industry)
	}
	if p.Website != "" {
		fmt.Fprintf(w, " %s\n", p.Website)
	}
	if p.Summary != "" {
		fmt.Fprintf(w, " %s\n", p.Summary)
	}
	fmt.Fprintln(w, rule)
}

// printProfitabilityNotes explains how the profit-breakdown metrics
// relate, with pointers to the long-form definitions.
func printProfitabilityNotes(w io.Writer) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Investopedia: https://www.investopedia.com/ask/answers/031015/what-difference-between-gross-profit-operating-profit-and-net-income.asp")
	fmt.Fprintln(w, "              https://www.investopedia.com/terms/f/freecashflow.asp")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "> Gross profit is total revenue minus the expenses directly related to the production of goods or the cost of goods sold (COGS).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "> Derived from gross profit, operating profit is the residual income after accounting for all costs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "> Net income reflects the total residual income after accounting for all cash flows, both positive and negative.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "> Free cash flow (FCF) represents the cash that a company generates after accounting for cash outflows to support operations and maintain its capital assets.")
	fmt.Fprintln(w)
}

func printLastClose(w io.Writer, bars []models.PriceBar) {
	if len(bars) == 0 {
		return
	}
	last := bars[len(bars)-1]
	fmt.Fprintf(w, " Last close %s on %s\n", utils.FormatUSD(last.Close), last.Date.Format(dateLayout))
}

// formatOwnership rewrites the raw provider numbers of an ownership
// table into readable form: the held fraction as a percentage, share
// counts with grouping, position values in compact magnitude units.
func formatOwnership(rec *table.Record) *table.Record {
	out := table.New(rec.Columns()...)
	for i := 0; i < rec.NumRows(); i++ {
		row := rec.Row(i)
		if f, ok := row["% Out"].Float(); ok {
			row["% Out"] = table.String(utils.FormatOwnershipPercent(f))
		}
		if f, ok := row["Shares"].Float(); ok {
			row["Shares"] = table.String(utils.FormatQuantity(int64(f)))
		}
		if f, ok := row["Value"].Float(); ok {
			row["Value"] = table.String(utils.FormatCompact(f))
		}
		out.AppendRow(row)
	}
	return out
}

// formatBreakdown formats the labeled breakdown rows. Percentage rows
// carry a 0..1 fraction, the remaining rows a plain count.
func formatBreakdown(rec *table.Record) *table.Record {
	out := table.New(rec.Columns()...)
	for i := 0; i < rec.NumRows(); i++ {
		row := rec.Row(i)
		if f, ok := row["Value"].Float(); ok {
			if strings.HasPrefix(rec.Cell(i, "Breakdown").String(), "%") {
				row["Value"] = table.String(utils.FormatOwnershipPercent(f))
			} else {
				row["Value"] = table.String(utils.FormatQuantity(int64(f)))
			}
		}
		out.AppendRow(row)
	}
	return out
}

func printSection(w io.Writer, title string, rec *table.Record) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.ToUpper(title))
	rec.Render(w)
}

func printNotice(w io.Writer, notice string) {
	fmt.Fprintln(w, notice)
}
