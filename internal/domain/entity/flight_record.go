package entity

import "time"

// FlightRecord is a cached model response for one flight on one date
type FlightRecord struct {
	FlightNumber string    `bson:"flightNumber"`
	FlightDate   string    `bson:"flightDate"` // YYYY-MM-DD
	Payload      string    `bson:"payload"`
	FetchedAt    time.Time `bson:"fetchedAt"`
}
