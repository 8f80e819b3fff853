package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"flightsync-service/internal/app"
	"flightsync-service/internal/infrastructure/config"
	"flightsync-service/pkg/logger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	source   string

	// newApp builds the services behind every command
	newApp = loadApp
)

var rootCmd = &cobra.Command{
	Use:           "flightctl",
	Short:         "flightctl looks up flights and syncs the flights sheet from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr.")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "Flight source, scrape or ai. Overrides FLIGHT_SOURCE.")
}

// ExecuteContext runs the command line and exits non-zero on failure
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadApp reads the environment, applies the global flags and builds the services
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if source != "" {
		cfg.FlightSource = strings.ToLower(source)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return app.New(ctx, cfg, logger.NewConsoleLogger(logLevel))
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}
