package entity

// RawFieldSet holds the loosely formatted strings scraped from a flight page.
// An empty string means the field was not found.
type RawFieldSet struct {
	FlightNumber      string
	Airline           string
	DepartureAirport  string
	ArrivalAirport    string
	DepartureTime     string
	ArrivalTime       string
	DepartureCountry  string
	ArrivalCountry    string
	DepartureDate     string
	ArrivalDate       string
	DepartureTerminal string
	ArrivalTerminal   string
	Duration          string
	Aircraft          string
}

// IsEmpty reports whether the page yielded no flight at all
func (r RawFieldSet) IsEmpty() bool {
	return r.FlightNumber == ""
}
