package usecase

import (
	"context"
	"errors"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"
)

// FlightLookup is the per-flight failure boundary: every error is logged and turned
// into a nil result so that a batch can move on
type FlightLookup struct {
	source  FlightSource
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewFlightLookup creates a new flight lookup
func NewFlightLookup(source FlightSource, metrics *metrics.Metrics, logger logger.Logger) *FlightLookup {
	return &FlightLookup{
		source:  source,
		metrics: metrics,
		logger:  logger,
	}
}

// GetFlightInfo returns the flight or nil when it could not be determined
func (l *FlightLookup) GetFlightInfo(ctx context.Context, date time.Time, flightNumber string) *entity.FlightInfo {
	start := time.Now()
	log := l.logger.With("flightNumber", flightNumber, "date", date.Format("2006-01-02"), "source", l.source.Name())

	info, err := l.source.FlightInfo(ctx, date, flightNumber)
	if l.metrics != nil {
		l.metrics.LookupTime.Observe(time.Since(start).Seconds())
	}

	outcome := metrics.OutcomeFound
	var httpErr *entity.HTTPError
	var normErr *entity.NormalizationError
	switch {
	case err == nil:
		log.Info("Flight found", "departure", info.DepartureAirport, "arrival", info.ArrivalAirport)
	case errors.Is(err, entity.ErrNoDataForDate):
		outcome = metrics.OutcomeNoData
		log.Info("No flight data for date", "error", err)
	case errors.Is(err, entity.ErrFlightNotFound):
		outcome = metrics.OutcomeNotFound
		log.Warn("Flight not found", "error", err)
	case errors.As(err, &httpErr):
		outcome = metrics.OutcomeHTTPError
		log.Warn("Flight lookup HTTP failure", "url", httpErr.URL, "status", httpErr.StatusCode, "error", err)
	case errors.As(err, &normErr):
		outcome = metrics.OutcomeNormalization
		log.Error("Failed to normalize flight", "field", normErr.Field, "value", normErr.Value, "error", err)
	default:
		outcome = metrics.OutcomeError
		log.Error("Flight lookup failed", "error", err)
	}

	if l.metrics != nil {
		l.metrics.Lookups.WithLabelValues(l.source.Name(), outcome).Inc()
	}
	if err != nil {
		return nil
	}
	return info
}
