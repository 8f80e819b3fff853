// Package google adapts the Calendar and Sheets APIs to the flight sinks
package google

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarRepository upserts flight events into one calendar
type CalendarRepository struct {
	service    *calendar.Service
	calendarID string
	logger     logger.Logger
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(ctx context.Context, calendarID string, logger logger.Logger, opts ...option.ClientOption) (repository.CalendarRepository, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarRepository{
		service:    service,
		calendarID: calendarID,
		logger:     logger,
	}, nil
}

// Upsert updates the event when eventID is set and inserts a new one otherwise
func (r *CalendarRepository) Upsert(ctx context.Context, event entity.CalendarEvent, eventID string) (string, error) {
	body := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.StartZone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.EndZone,
		},
	}

	if eventID != "" {
		updated, err := r.service.Events.Update(r.calendarID, eventID, body).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("update event %s: %w", eventID, err)
		}
		r.logger.Info("Updated calendar event", "summary", event.Summary, "eventID", updated.Id)
		return updated.Id, nil
	}

	created, err := r.service.Events.Insert(r.calendarID, body).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	r.logger.Info("Created calendar event", "summary", event.Summary, "eventID", created.Id)
	return created.Id, nil
}
