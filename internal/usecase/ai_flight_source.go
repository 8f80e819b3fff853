package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"
	"flightsync-service/pkg/utils"

	"github.com/sosodev/duration"
)

// layouts of the local date-times a model answers with, any offset is ignored
var payloadTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// AIFlightSource asks a hosted model for the flight and caches the raw answer per
// flight number and date
type AIFlightSource struct {
	model       repository.FlightModelRepository
	cache       repository.FlightCacheRepository
	airportRepo repository.AirportRepository
	countries   repository.CountryResolver
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// NewAIFlightSource creates a new model backed flight source
func NewAIFlightSource(
	model repository.FlightModelRepository,
	cache repository.FlightCacheRepository,
	airportRepo repository.AirportRepository,
	countries repository.CountryResolver,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *AIFlightSource {
	return &AIFlightSource{
		model:       model,
		cache:       cache,
		airportRepo: airportRepo,
		countries:   countries,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Name identifies the source in logs and metrics
func (s *AIFlightSource) Name() string {
	return "ai"
}

// FlightInfo returns the cached answer for the key or asks the model once
func (s *AIFlightSource) FlightInfo(ctx context.Context, date time.Time, flightNumber string) (*entity.FlightInfo, error) {
	flightNumber = strings.TrimSpace(flightNumber)
	flightDate := date.Format(utils.ISO_DATE_LAYOUT)

	text, err := s.payload(ctx, flightNumber, flightDate)
	if err != nil {
		return nil, err
	}

	var payload entity.FlightPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, &entity.NormalizationError{Field: "payload", Value: text, Err: err}
	}
	return s.toFlightInfo(ctx, payload)
}

func (s *AIFlightSource) payload(ctx context.Context, flightNumber, flightDate string) (string, error) {
	record, err := s.cache.Get(ctx, flightNumber, flightDate)
	if err == nil {
		s.logger.Debug("Flight cache hit", "flightNumber", flightNumber, "flightDate", flightDate)
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		return record.Payload, nil
	}
	if !errors.Is(err, entity.ErrCacheMiss) {
		s.logger.Warn("Flight cache read failed", "flightNumber", flightNumber, "error", err)
	}

	text, err := s.model.ExtractFlight(ctx, flightNumber, flightDate)
	if err != nil {
		return "", err
	}

	// only answers that decode are worth keeping
	if json.Valid([]byte(text)) {
		err = s.cache.Put(ctx, &entity.FlightRecord{
			FlightNumber: flightNumber,
			FlightDate:   flightDate,
			Payload:      text,
			FetchedAt:    s.now(),
		})
		if err != nil {
			s.logger.Warn("Flight cache write failed", "flightNumber", flightNumber, "error", err)
		}
	}
	return text, nil
}

func (s *AIFlightSource) toFlightInfo(ctx context.Context, p entity.FlightPayload) (*entity.FlightInfo, error) {
	if strings.TrimSpace(p.FlightNumber) == "" {
		return nil, &entity.NormalizationError{Field: "flight_number", Value: p.FlightNumber, Err: fmt.Errorf("missing")}
	}

	dep, err := s.endpoint(ctx, "departure", p.DepartureAirport, p.DepartureCity, p.DepartureCountry, p.DepartureTime)
	if err != nil {
		return nil, err
	}
	arr, err := s.endpoint(ctx, "arrival", p.ArrivalAirport, p.ArrivalCity, p.ArrivalCountry, p.ArrivalTime)
	if err != nil {
		return nil, err
	}

	var elapsed time.Duration
	if p.Duration != "" {
		d, err := duration.Parse(p.Duration)
		if err != nil {
			return nil, &entity.NormalizationError{Field: "duration", Value: p.Duration, Err: err}
		}
		elapsed = d.ToTimeDuration()
	}
	if elapsed < 0 {
		return nil, &entity.NormalizationError{Field: "duration", Value: p.Duration, Err: fmt.Errorf("negative")}
	}

	quality := entity.DefaultDataQuality
	if p.DataQuality != nil {
		quality = *p.DataQuality
	}

	return &entity.FlightInfo{
		FlightNumber:          strings.ToUpper(strings.Join(strings.Fields(p.FlightNumber), "")),
		OperatingFlightNumber: p.OperatingFlightNumber,
		Airline:               p.Airline,
		OperatingAirline:      p.OperatingAirline,
		DepartureAirport:      dep.code,
		ArrivalAirport:        arr.code,
		DepartureCountry:      dep.country,
		ArrivalCountry:        arr.country,
		DepartureCity:         dep.city,
		ArrivalCity:           arr.city,
		DepartureTerminal:     utils.NormalizeTerminal(deref(p.DepartureTerminal)),
		ArrivalTerminal:       utils.NormalizeTerminal(deref(p.ArrivalTerminal)),
		DepartureTime:         dep.time,
		ArrivalTime:           arr.time,
		Duration:              elapsed,
		Aircraft:              optional(deref(p.Aircraft)),
		RouteDistanceKm:       p.RouteDistanceKm,
		DataSources:           p.DataSources,
		DataQuality:           quality,
	}, nil
}

func (s *AIFlightSource) endpoint(ctx context.Context, side, code, city, country, localTime string) (endpoint, error) {
	var ep endpoint

	ep.code = utils.ExtractAirportCode(code)
	airport, err := s.airportRepo.GetByCode(ctx, ep.code)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_airport", Value: code, Err: err}
	}
	loc, err := time.LoadLocation(airport.TzName)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_airport", Value: code, Err: err}
	}

	ep.city = strings.TrimSpace(city)
	if ep.city == "" {
		ep.city = airport.City
	}

	c, err := s.countries.ByAlpha2(country)
	if err != nil {
		// tolerate a spelled out name
		c, err = s.countries.Resolve(country)
		if err != nil {
			return ep, &entity.NormalizationError{Field: side + "_country", Value: country, Err: err}
		}
	}
	ep.country = *c

	ep.time, err = localizePayloadTime(localTime, loc)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_time", Value: localTime, Err: err}
	}
	return ep, nil
}

// localizePayloadTime reads the wall clock of an ISO 8601 date-time and places it in loc
func localizePayloadTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	for _, layout := range payloadTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date-time %q", value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
