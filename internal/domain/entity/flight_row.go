package entity

import (
	"strconv"
	"time"
)

// Sheet column names
const (
	ColYear              = "Year"
	ColMonth             = "Month"
	ColDay               = "Day"
	ColWeekday           = "Weekday"
	ColDate              = "Date"
	ColFlightNumber      = "Flight #"
	ColDepartureAirport  = "Departure Airport"
	ColArrivalAirport    = "Arrival Airport"
	ColDepartureTime     = "Departure Time"
	ColArrivalTime       = "Arrival Time"
	ColDuration          = "Duration"
	ColOrigin            = "Origin"
	ColDestination       = "Destination"
	ColFlighty           = "Flighty"
	ColEventID           = "gcal_event_id"
	ColNote              = "note"
	ColDurationSeconds   = "duration_s"
	ColAirline           = "airline"
	ColAircraft          = "aircraft"
	ColDepartureCountry  = "departure_country"
	ColArrivalCountry    = "arrival_country"
	ColDepartureTerminal = "departure_terminal"
	ColArrivalTerminal   = "arrival_terminal"
)

// SheetColumns is the expected header of the flights sheet, in order
var SheetColumns = []string{
	ColYear, ColMonth, ColDay, ColWeekday, ColDate, ColFlightNumber,
	ColDepartureAirport, ColArrivalAirport, ColDepartureTime, ColArrivalTime,
	ColDuration, ColOrigin, ColDestination, ColFlighty, ColEventID, ColNote,
	ColDurationSeconds, ColAirline, ColAircraft, ColDepartureCountry,
	ColArrivalCountry, ColDepartureTerminal, ColArrivalTerminal,
}

// FlightRow is one data row of the flights sheet. Number is the 1-based sheet row.
type FlightRow struct {
	Number int
	Header []string
	Values map[string]string
}

// NewFlightRow zips a header with a raw row; missing trailing cells become empty
func NewFlightRow(number int, header []string, cells []string) FlightRow {
	values := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(cells) {
			values[col] = cells[i]
		} else {
			values[col] = ""
		}
	}
	return FlightRow{Number: number, Header: header, Values: values}
}

// Get returns the cell of a column, empty when absent
func (r FlightRow) Get(col string) string {
	return r.Values[col]
}

// Cells returns the row values in header order
func (r FlightRow) Cells() []string {
	cells := make([]string, len(r.Header))
	for i, col := range r.Header {
		cells[i] = r.Values[col]
	}
	return cells
}

// WithFlightInfo returns a copy of the row carrying the looked up flight and the id of
// its calendar event. Columns not present in the header are dropped.
func (r FlightRow) WithFlightInfo(info *FlightInfo, eventID string) FlightRow {
	values := make(map[string]string, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}

	set := func(col, value string) {
		if _, ok := values[col]; ok {
			values[col] = value
		}
	}
	dep := info.DepartureTime

	set(ColWeekday, dep.Format("Mon"))
	set(ColDate, dep.Format("2006-01-02"))
	set(ColDepartureAirport, info.DepartureAirport)
	set(ColArrivalAirport, info.ArrivalAirport)
	set(ColDepartureTime, FormatTimeWithOffset(info.DepartureTime))
	set(ColArrivalTime, FormatTimeWithOffset(info.ArrivalTime))
	set(ColDuration, info.FormattedDuration())
	set(ColOrigin, info.DepartureCity)
	set(ColDestination, info.ArrivalCity)
	set(ColEventID, eventID)
	set(ColDurationSeconds, strconv.FormatInt(int64(info.Duration/time.Second), 10))
	set(ColAirline, info.Airline)
	set(ColAircraft, deref(info.Aircraft))
	set(ColDepartureCountry, info.DepartureCountry.Name)
	set(ColArrivalCountry, info.ArrivalCountry.Name)
	set(ColDepartureTerminal, deref(info.DepartureTerminal))
	set(ColArrivalTerminal, deref(info.ArrivalTerminal))

	return FlightRow{Number: r.Number, Header: r.Header, Values: values}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
