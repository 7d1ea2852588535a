package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"equitydash/internal/config"
	"equitydash/internal/finnhub"
	"equitydash/internal/fundamentals"
	"equitydash/internal/logging"
	"equitydash/internal/yahoo"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Market     *yahoo.Client
	Ancillary  *finnhub.Client
	Aggregator *fundamentals.Aggregator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Market = yahoo.New(logger)
	app.Aggregator = fundamentals.New(app.Market, logger)

	// The ancillary provider needs a token; without one the dashboard
	// runs with the regulatory tables skipped.
	if cfg.HasFinnhubToken() {
		app.Ancillary = finnhub.New(cfg.Credentials.Finnhub.Token, logger)
		logger.Debug().Msg("Finnhub client initialized")
	} else {
		logger.Debug().Msg("no Finnhub token, regulatory datasets disabled")
	}

	rootCmd := &cobra.Command{
		Use:   "equitydash",
		Short: "Single-ticker equity research dashboard",
		Long: `Equitydash fetches quarterly fundamentals, price history, corporate
actions, ownership breakdowns, and regulatory datasets for a ticker,
then renders interactive charts and tabular views for inspection.

Use 'equitydash help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/equitydash)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDashboardCmd(app))
	rootCmd.AddCommand(newBulkCmd(app))
	rootCmd.AddCommand(newSearchCmd(app))
	rootCmd.AddCommand(newDataCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("equitydash v%s\n", Version)
			}
		},
	}
}
