package repository

import (
	"context"

	"flightsync-service/internal/domain/entity"
)

// FlightCacheRepository stores model responses keyed by flight number and date.
// Get returns entity.ErrCacheMiss when no record exists.
type FlightCacheRepository interface {
	Get(ctx context.Context, flightNumber, flightDate string) (*entity.FlightRecord, error)
	Put(ctx context.Context, record *entity.FlightRecord) error
}
