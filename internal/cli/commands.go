package cli

import (
	"time"

	"github.com/spf13/cobra"

	"equitydash/internal/dashboard"
	"equitydash/internal/errors"
	"equitydash/internal/table"
	"equitydash/pkg/utils"
)

func newDashboardCmd(app *App) *cobra.Command {
	var from string
	var outDir string

	cmd := &cobra.Command{
		Use:   "dashboard <ticker>",
		Short: "Render the research dashboard for one ticker",
		Long: `Fetches fundamentals, price history, dividends, ownership, and
regulatory datasets for the ticker, writes an HTML chart page, and
prints the tabular sections.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := args[0]

			cfg := app.Config.Dashboard
			if outDir != "" {
				cfg.OutputDir = outDir
			}

			deps := dashboard.Deps{
				Market:     app.Market,
				Financials: app.Aggregator,
				Config:     cfg,
				Out:        output.Writer(),
				Logger:     app.Logger,
			}
			if app.Ancillary != nil {
				deps.Ancillary = app.Ancillary
			} else {
				output.Warning("No Finnhub token configured; regulatory datasets will be skipped.")
			}

			if err := dashboard.New(deps).Run(cmd.Context(), ticker, from); err != nil {
				return err
			}
			output.Success("Dashboard written for %s", ticker)
			return nil
		},
	}

	defaultFrom := time.Now().AddDate(-3, 0, 0).Format("2006-01-02")
	cmd.Flags().StringVar(&from, "from", defaultFrom, "lower-bound date (YYYY-MM-DD) for regulatory datasets")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for the chart page (default: configured output_dir)")

	return cmd
}

func newBulkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <ticker>...",
		Short: "Aggregate quarterly financials across tickers",
		Long: `Builds the combined financial record for every ticker in order and
prints it keyed by (Ticker, Date). Any single failure aborts the batch.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if len(args) == 0 {
				return errors.ErrEmptyTickerList
			}

			rec, err := app.Aggregator.BulkFinancials(cmd.Context(), args)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(recordMaps(rec))
			}
			formatRatios(rec).Render(output.Writer())
			return nil
		},
	}
}

// formatRatios renders the derived ratio columns as signed percentages
// for terminal output. JSON output keeps the raw numbers.
func formatRatios(rec *table.Record) *table.Record {
	out := table.New(rec.Columns()...)
	for i := 0; i < rec.NumRows(); i++ {
		row := rec.Row(i)
		for _, c := range []string{"Earnings %", "Debt to Equity"} {
			if f, ok := row[c].Float(); ok {
				row[c] = table.String(utils.FormatPercent(f))
			}
		}
		out.AppendRow(row)
	}
	return out
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search ticker symbols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Ancillary == nil {
				return errors.ErrMissingToken
			}

			rec, err := app.Ancillary.SearchTicker(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(recordMaps(rec))
			}
			rec.Render(output.Writer())
			return nil
		},
	}
}

// recordMaps converts a record into row maps for JSON output. Missing
// cells are omitted from their row.
func recordMaps(rec *table.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, rec.NumRows())
	for i := 0; i < rec.NumRows(); i++ {
		row := make(map[string]interface{})
		for col, v := range rec.Row(i) {
			row[col] = v.Any()
		}
		out = append(out, row)
	}
	return out
}
