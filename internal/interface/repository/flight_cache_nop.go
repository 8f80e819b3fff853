package repository

import (
	"context"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
)

// NopFlightCacheRepository never stores anything, every Get is a miss
type NopFlightCacheRepository struct{}

// NewNopFlightCacheRepository is used when CACHE_BACKEND=none
func NewNopFlightCacheRepository() repository.FlightCacheRepository {
	return NopFlightCacheRepository{}
}

func (NopFlightCacheRepository) Get(ctx context.Context, flightNumber, flightDate string) (*entity.FlightRecord, error) {
	return nil, entity.ErrCacheMiss
}

func (NopFlightCacheRepository) Put(ctx context.Context, record *entity.FlightRecord) error {
	return nil
}
