package repository

import (
	"context"

	"flightsync-service/internal/domain/entity"
)

// AirlineRepository resolves IATA airline codes. Unknown codes return
// entity.ErrAirlineNotFound.
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
