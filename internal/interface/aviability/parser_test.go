package aviability

import (
	"os"
	"path/filepath"
	"testing"

	"flightsync-service/internal/domain/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	table, err := DefaultSelectors()
	require.NoError(t, err)
	return NewParser(table)
}

func TestParseDetailPage(t *testing.T) {
	raw, err := newTestParser(t).Parse(readFixture(t, "flight_lh2206.html"))
	require.NoError(t, err)

	want := entity.RawFieldSet{
		FlightNumber:      "LH 2206",
		Airline:           "Lufthansa",
		DepartureAirport:  "Frankfurt (FRA)",
		ArrivalAirport:    "Zurich (ZHR)",
		DepartureTime:     "18:40",
		ArrivalTime:       "19:45",
		DepartureCountry:  "Frankfurt, Germany",
		ArrivalCountry:    "Zurich, Switzerland",
		DepartureDate:     "Jul 19",
		ArrivalDate:       "Jul 19",
		DepartureTerminal: "1",
		ArrivalTerminal:   "",
		Duration:          "1h 5m",
		Aircraft:          "Airbus A320neo",
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("raw fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNoFlights(t *testing.T) {
	raw, err := newTestParser(t).Parse(readFixture(t, "no_flights.html"))
	require.NoError(t, err)
	require.True(t, raw.IsEmpty())
	require.Equal(t, entity.RawFieldSet{}, raw)
}

func TestParseNoFlightsTextOnly(t *testing.T) {
	html := `<html><body><h1>LH 2206 - Lufthansa: Frankfurt to Zurich</h1>
		<div class="alert">Sorry, NO FLIGHTS   available for the selected date.</div></body></html>`
	raw, err := newTestParser(t).Parse(html)
	require.NoError(t, err)
	require.True(t, raw.IsEmpty())
}

func TestParseNoFlightsTextOutsideContainer(t *testing.T) {
	html := `<html><body><h1>LH 2206 - Lufthansa: Frankfurt to Zurich</h1>
		<div class="stb"><div class="stl">Airport</div>
		<div class="stv">Frankfurt (FRA)</div><div class="stv">Zurich (ZRH)</div></div>
		<footer>There are no flights available on some holidays.</footer></body></html>`
	raw, err := newTestParser(t).Parse(html)
	require.NoError(t, err)
	require.Equal(t, "LH 2206", raw.FlightNumber)
	require.Equal(t, "Zurich (ZRH)", raw.ArrivalAirport)
}

func TestParseMissingHeading(t *testing.T) {
	html := `<html><body><div class="stb"><div class="stl">Airport</div>
		<div class="stv">Frankfurt (FRA)</div><div class="stv">Zurich (ZRH)</div></div></body></html>`
	raw, err := newTestParser(t).Parse(html)
	require.NoError(t, err)
	require.True(t, raw.IsEmpty())
}

func TestParseMissingBlocksLeaveFieldsEmpty(t *testing.T) {
	html := `<html><body><h1>U2 1234 - easyJet: Basel to London</h1>
		<div class="stb"><div class="stl">Date</div><div class="stv">July 19, Saturday</div><div class="stv">July 19, Saturday</div></div>
		<div class="stb"><div class="stl">Time</div><div class="stv">07:55</div></div>
		<div class="stb"><div class="stl">Aircraft</div><div class="stv">Airbus A319</div></div>
		</body></html>`
	raw, err := newTestParser(t).Parse(html)
	require.NoError(t, err)

	require.Equal(t, "U2 1234", raw.FlightNumber)
	require.Equal(t, "easyJet", raw.Airline)
	require.Equal(t, "July 19, Saturday", raw.DepartureDate)
	require.Equal(t, "July 19, Saturday", raw.ArrivalDate)
	require.Equal(t, "07:55", raw.DepartureTime)
	require.Equal(t, "", raw.ArrivalTime)
	require.Equal(t, "Airbus A319", raw.Aircraft)
	require.Equal(t, "", raw.DepartureAirport)
	require.Equal(t, "", raw.Duration)
}

func TestParseDateTimeWithoutComma(t *testing.T) {
	html := `<html><body><h1>LH 2206 - Lufthansa: Frankfurt to Zurich</h1>
		<div class="stb"><div class="stl">Scheduled</div><div class="stv">Jul 19</div><div class="stv">Jul 20, 00:10</div></div>
		</body></html>`
	raw, err := newTestParser(t).Parse(html)
	require.NoError(t, err)
	require.Equal(t, "Jul 19", raw.DepartureDate)
	require.Equal(t, "", raw.DepartureTime)
	require.Equal(t, "Jul 20", raw.ArrivalDate)
	require.Equal(t, "00:10", raw.ArrivalTime)
}

func TestParseSelectorsValidation(t *testing.T) {
	_, err := ParseSelectors([]byte(`heading: {selector: h1}`))
	require.Error(t, err)

	_, err = ParseSelectors([]byte(`
heading: {selector: h1, pattern: '(?P<code>\w+)'}
blocks: {block: div, label: span, value: p}
`))
	require.Error(t, err)

	_, err = ParseSelectors([]byte(`
heading: {selector: h1, pattern: '(?P<flight_number>\w+)'}
blocks: {block: div, label: span, value: p, labels: {gate: gate}}
`))
	require.Error(t, err)

	_, err = ParseSelectors([]byte(`
fields: {flight_number: {selector: div.stn}, gate: {selector: div.gate}}
`))
	require.Error(t, err)

	_, err = ParseSelectors([]byte(`
no_flights: {text: no flights}
fields: {flight_number: {selector: div.stn}}
`))
	require.Error(t, err)
}

func TestPositionalSelectorTable(t *testing.T) {
	table, err := LoadSelectors("selectors_positional.yaml")
	require.NoError(t, err)

	raw, err := NewParser(table).Parse(readFixture(t, "flight_positional.html"))
	require.NoError(t, err)

	want := entity.RawFieldSet{
		FlightNumber:      "LX 1071",
		Airline:           "Swiss",
		DepartureAirport:  "Zurich (ZRH)",
		ArrivalAirport:    "Berlin (BER)",
		DepartureTime:     "07:00",
		ArrivalTime:       "08:20",
		DepartureCountry:  "Zurich, Switzerland",
		ArrivalCountry:    "Berlin, Germany",
		DepartureDate:     "Jul 19",
		ArrivalDate:       "Jul 19",
		DepartureTerminal: "2",
		ArrivalTerminal:   "1",
		Duration:          "1h 20m",
		Aircraft:          "Airbus A220-300",
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("raw fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionalTerminalsNeedAllCells(t *testing.T) {
	table, err := LoadSelectors("selectors_positional.yaml")
	require.NoError(t, err)

	html := `<html><body><div class="stn">U2 1234</div><div class="sta">easyJet</div>
		<div class="stp stz">Basel (BSL)</div><div class="stp stz">London (LGW)</div>
		<div class="stp">Basel, Switzerland</div><div class="stp">London, United Kingdom</div>
		<div class="stp">Jul 19</div><div class="stp">Jul 19</div></body></html>`
	raw, err := NewParser(table).Parse(html)
	require.NoError(t, err)
	require.Equal(t, "U2 1234", raw.FlightNumber)
	require.Equal(t, "London, United Kingdom", raw.ArrivalCountry)
	require.Equal(t, "Jul 19", raw.DepartureDate)
	require.Equal(t, "", raw.DepartureTerminal)
	require.Equal(t, "", raw.ArrivalTerminal)
	require.Equal(t, "", raw.Duration)
}

func TestSwappedSelectorTable(t *testing.T) {
	table, err := ParseSelectors([]byte(`
heading:
  selector: "h2.title"
  pattern: '^Flight (?P<flight_number>\S+) by (?P<airline>.+)$'
blocks:
  block: "tr"
  label: "th"
  value: "td"
  labels:
    From / To: airport
    Length: duration
`))
	require.NoError(t, err)

	html := `<html><body><h2 class="title">Flight LX1071 by Swiss</h2><table>
		<tr><th>From / To</th><td>Zurich (ZRH)</td><td>Berlin (BER)</td></tr>
		<tr><th>Length</th><td>1h 20m</td></tr></table></body></html>`
	raw, err := NewParser(table).Parse(html)
	require.NoError(t, err)
	require.Equal(t, "LX1071", raw.FlightNumber)
	require.Equal(t, "Swiss", raw.Airline)
	require.Equal(t, "Zurich (ZRH)", raw.DepartureAirport)
	require.Equal(t, "Berlin (BER)", raw.ArrivalAirport)
	require.Equal(t, "1h 20m", raw.Duration)
}
