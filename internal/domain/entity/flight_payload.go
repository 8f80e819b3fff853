package entity

// FlightPayload is the JSON document returned by the flight model. Countries are ISO
// alpha-2 codes, times are local ISO 8601 date-times and the duration is an ISO 8601
// duration such as "PT1H5M".
type FlightPayload struct {
	FlightNumber          string       `json:"flight_number"`
	OperatingFlightNumber string       `json:"operating_flight_number"`
	Airline               string       `json:"airline"`
	OperatingAirline      string       `json:"operating_airline"`
	DepartureAirport      string       `json:"departure_airport"`
	ArrivalAirport        string       `json:"arrival_airport"`
	DepartureCity         string       `json:"departure_city"`
	ArrivalCity           string       `json:"arrival_city"`
	DepartureCountry      string       `json:"departure_country"`
	ArrivalCountry        string       `json:"arrival_country"`
	DepartureTerminal     *string      `json:"departure_terminal"`
	ArrivalTerminal       *string      `json:"arrival_terminal"`
	DepartureTime         string       `json:"departure_time"`
	ArrivalTime           string       `json:"arrival_time"`
	Duration              string       `json:"duration"`
	Aircraft              *string      `json:"aircraft"`
	RouteDistanceKm       *float64     `json:"route_distance_km"`
	DataSources           []DataSource `json:"data_sources"`
	DataQuality           *DataQuality `json:"data_quality"`
}
