package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(airportCmd)
	rootCmd.AddCommand(countryCmd)
}

var airportCmd = &cobra.Command{
	Use:   "airport <code>...",
	Short: "Prints the reference data of IATA airport codes.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		services, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer services.Close(ctx)

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Code", "Name", "City", "Country", "Timezone"})
		for _, code := range args {
			airport, err := services.Airports.GetByCode(ctx, code)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{airport.Code, airport.Name, airport.City, airport.CountryCode, airport.TzName})
		}
		t.Render()
		return nil
	},
}

var countryCmd = &cobra.Command{
	Use:   "country <name>...",
	Short: "Resolves free-text country names the way scraped pages are resolved.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		services, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer services.Close(ctx)

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Input", "Alpha-2", "Alpha-3", "Name", "Flag"})
		for _, text := range args {
			country, err := services.Countries.Resolve(text)
			if err != nil {
				t.AppendRow(table.Row{text, "-", "-", err.Error(), ""})
				continue
			}
			t.AppendRow(table.Row{text, country.Alpha2, country.Alpha3, country.Name, country.Flag()})
		}
		t.Render()
		return nil
	},
}
