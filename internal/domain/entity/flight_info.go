package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DataSource names where a value of an AI-extracted record came from
type DataSource struct {
	Source  string `json:"source"`
	UsedFor string `json:"used_for"`
}

// DataQuality describes how trustworthy an AI-extracted record is
type DataQuality struct {
	Status     string `json:"status"`
	Confidence string `json:"confidence"`
	Notes      string `json:"notes"`
}

// DefaultDataQuality is applied when a source does not report quality
var DefaultDataQuality = DataQuality{Status: "scheduled", Confidence: "medium"}

// FlightInfo is the canonical record of one flight. Departure and arrival times each
// carry the location of their own airport.
type FlightInfo struct {
	FlightNumber          string
	OperatingFlightNumber string
	Airline               string
	OperatingAirline      string

	DepartureAirport  string
	ArrivalAirport    string
	DepartureCountry  Country
	ArrivalCountry    Country
	DepartureCity     string
	ArrivalCity       string
	DepartureTerminal *string
	ArrivalTerminal   *string

	DepartureTime time.Time
	ArrivalTime   time.Time
	// Duration is parsed independently from the page and is not reconciled with
	// ArrivalTime - DepartureTime.
	Duration time.Duration
	Aircraft *string

	RouteDistanceKm *float64
	DataSources     []DataSource
	DataQuality     DataQuality
}

// WithYear returns a copy of the record whose departure and arrival dates are moved to
// the given year, keeping month, day, clock and zone. An arrival that falls in an earlier
// month than the departure is a year crossing and lands in year+1.
func (f *FlightInfo) WithYear(year int) *FlightInfo {
	out := *f
	out.DepartureTime = replaceYear(f.DepartureTime, year)
	out.ArrivalTime = replaceYear(f.ArrivalTime, year)
	if out.ArrivalTime.Before(out.DepartureTime) && f.ArrivalTime.Month() < f.DepartureTime.Month() {
		out.ArrivalTime = replaceYear(f.ArrivalTime, year+1)
	}
	return &out
}

func replaceYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// FormattedDuration renders the duration as zero padded HH:MM
func (f *FlightInfo) FormattedDuration() string {
	total := int(f.Duration / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatDateTimeWithOffset renders "2006-01-02 15:04 (CEST +2)"
func FormatDateTimeWithOffset(t time.Time) string {
	return t.Format("2006-01-02 15:04") + " " + zoneSuffix(t)
}

// FormatTimeWithOffset renders "15:04 (CEST +2)"
func FormatTimeWithOffset(t time.Time) string {
	return t.Format("15:04") + " " + zoneSuffix(t)
}

func zoneSuffix(t time.Time) string {
	name, offset := t.Zone()
	hours := int(math.Floor(float64(offset) / 3600))
	return fmt.Sprintf("(%s %+d)", name, hours)
}

// CalendarSummary is the one-line event title
func (f *FlightInfo) CalendarSummary() string {
	return fmt.Sprintf("✈️ %s → %s %s", f.DepartureAirport, f.ArrivalAirport, f.FlightNumber)
}

// CalendarDescription is the multi-line event body
func (f *FlightInfo) CalendarDescription() string {
	dep := f.DepartureCountry
	arr := f.ArrivalCountry

	aircraft := "TBD"
	if f.Aircraft != nil && *f.Aircraft != "" {
		aircraft = *f.Aircraft
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Flight Details %s\n", dep.Flag(), arr.Flag())
	fmt.Fprintf(&b, "✈️ Airline: %s (%s)\n", f.Airline, f.FlightNumber)
	fmt.Fprintf(&b, "⏱️ Duration: %s\n", f.FormattedDuration())
	fmt.Fprintf(&b, "🛩️ Aircraft: %s\n", aircraft)
	b.WriteString("📍 Departure:\n")
	fmt.Fprintf(&b, "\t%s %s, %s %s%s\n", dep.Flag(), f.DepartureAirport, f.DepartureCity, dep.Name, terminalSuffix(f.DepartureTerminal))
	fmt.Fprintf(&b, "\t🛫 %s\n", FormatDateTimeWithOffset(f.DepartureTime))
	b.WriteString("📍 Arrival:\n")
	fmt.Fprintf(&b, "\t%s %s, %s %s%s\n", arr.Flag(), f.ArrivalAirport, f.ArrivalCity, arr.Name, terminalSuffix(f.ArrivalTerminal))
	fmt.Fprintf(&b, "\t🛬 %s\n", FormatDateTimeWithOffset(f.ArrivalTime))
	return b.String()
}

func terminalSuffix(t *string) string {
	if t == nil || *t == "" {
		return ""
	}
	return " (" + *t + ")"
}

// CalendarEvent builds the event for this flight. When the arrival is not after the
// departure the event ends at departure + duration.
func (f *FlightInfo) CalendarEvent() CalendarEvent {
	start := f.DepartureTime
	end := f.ArrivalTime
	if !end.After(start) {
		end = start.Add(f.Duration)
	}
	return CalendarEvent{
		Summary:     f.CalendarSummary(),
		Description: f.CalendarDescription(),
		Start:       start,
		StartZone:   start.Location().String(),
		End:         end,
		EndZone:     end.Location().String(),
	}
}
