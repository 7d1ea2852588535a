package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"equitydash/internal/errors"
	"equitydash/internal/finnhub"
	"equitydash/internal/table"
)

// newDataCmd groups the standalone regulatory and analyst datasets.
func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Fetch individual datasets for a ticker",
		Long:  "Fetches one provider dataset and prints it as a table, without rendering the full dashboard.",
	}

	type simpleDataset struct {
		use   string
		short string
		fetch func(*finnhub.Client, context.Context, string) (*table.Record, error)
	}
	simple := []simpleDataset{
		{"filings <ticker>", "Recent SEC filings", (*finnhub.Client).SECFilings},
		{"recommendations <ticker>", "Analyst recommendation trends", (*finnhub.Client).AnalystRecommendations},
		{"surprises <ticker>", "Historical EPS surprises", (*finnhub.Client).EPSSurprises},
		{"calendar <ticker>", "Earnings calendar", (*finnhub.Client).EarningsCalendar},
	}
	for _, ds := range simple {
		fetch := ds.fetch
		cmd.AddCommand(&cobra.Command{
			Use:   ds.use,
			Short: ds.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Ancillary == nil {
					return errors.ErrMissingToken
				}
				rec, err := fetch(app.Ancillary, cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printDataset(cmd, rec)
			},
		})
	}

	type datedDataset struct {
		use   string
		short string
		fetch func(*finnhub.Client, context.Context, string, string) (*table.Record, error)
	}
	dated := []datedDataset{
		{"patents <ticker>", "USPTO patent applications", (*finnhub.Client).Patents},
		{"visas <ticker>", "H1B visa applications", (*finnhub.Client).VisaApplications},
		{"lobbying <ticker>", "Senate lobbying activity", (*finnhub.Client).SenateLobbying},
	}
	defaultFrom := time.Now().AddDate(-3, 0, 0).Format("2006-01-02")
	for _, ds := range dated {
		fetch := ds.fetch
		sub := &cobra.Command{
			Use:   ds.use,
			Short: ds.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Ancillary == nil {
					return errors.ErrMissingToken
				}
				from, _ := cmd.Flags().GetString("from")
				rec, err := fetch(app.Ancillary, cmd.Context(), args[0], from)
				if err != nil {
					return err
				}
				return printDataset(cmd, rec)
			},
		}
		sub.Flags().String("from", defaultFrom, "lower-bound date (YYYY-MM-DD)")
		cmd.AddCommand(sub)
	}

	return cmd
}

func printDataset(cmd *cobra.Command, rec *table.Record) error {
	output := NewOutput(cmd)
	if output.IsJSON() {
		return output.JSON(recordMaps(rec))
	}
	if rec.NumRows() == 0 {
		output.Warning("NO DATA")
		return nil
	}
	rec.Render(output.Writer())
	return nil
}
