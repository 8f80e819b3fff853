package repository

import (
	"context"

	"flightsync-service/internal/domain/entity"
)

// CalendarRepository upserts flight events. An empty eventID creates a new event.
// The id of the stored event is returned.
type CalendarRepository interface {
	Upsert(ctx context.Context, event entity.CalendarEvent, eventID string) (string, error)
}
