package commands

import (
	"fmt"
	"io"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showEvent bool

func init() {
	lookupCmd.Flags().BoolVar(&showEvent, "event", false, "Also print the calendar event text.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <flight-number> [date]",
	Short: "Looks a flight up for a date, today when omitted.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		services, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer services.Close(ctx)

		date := time.Now().In(services.Location)
		if len(args) == 2 {
			date, err = utils.ParseSheetDate(args[1], services.Location)
			if err != nil {
				return err
			}
		}

		info, err := services.Source.FlightInfo(ctx, date, args[0])
		if err != nil {
			return fmt.Errorf("%s on %s: %w", args[0], date.Format(utils.ISO_DATE_LAYOUT), err)
		}

		out := cmd.OutOrStdout()
		renderFlight(out, info)
		if showEvent {
			event := info.CalendarEvent()
			fmt.Fprintln(out)
			fmt.Fprintln(out, event.Summary)
			fmt.Fprint(out, event.Description)
		}
		return nil
	},
}

func renderFlight(w io.Writer, info *entity.FlightInfo) {
	t := newTable(w)
	t.SetTitle(info.FlightNumber)
	t.AppendHeader(table.Row{"", "Departure", "Arrival"})
	t.AppendRows([]table.Row{
		{"Airport", info.DepartureAirport, info.ArrivalAirport},
		{"City", info.DepartureCity, info.ArrivalCity},
		{"Country", info.DepartureCountry.Flag() + " " + info.DepartureCountry.Name, info.ArrivalCountry.Flag() + " " + info.ArrivalCountry.Name},
		{"Terminal", optional(info.DepartureTerminal), optional(info.ArrivalTerminal)},
		{"Local time", entity.FormatDateTimeWithOffset(info.DepartureTime), entity.FormatDateTimeWithOffset(info.ArrivalTime)},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Airline", info.Airline, ""})
	t.AppendRow(table.Row{"Aircraft", optional(info.Aircraft), ""})
	t.AppendRow(table.Row{"Duration", info.FormattedDuration(), ""})
	t.Render()
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
