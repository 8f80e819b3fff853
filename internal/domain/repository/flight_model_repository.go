package repository

import "context"

// FlightModelRepository asks a hosted language model for the schedule of a flight.
// The returned text is the bare JSON document, see entity.FlightPayload.
type FlightModelRepository interface {
	ExtractFlight(ctx context.Context, flightNumber, flightDate string) (string, error)
}
