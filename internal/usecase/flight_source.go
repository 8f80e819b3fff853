package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
)

// FlightSource produces the FlightInfo of a flight designator on a travel date
type FlightSource interface {
	Name() string
	FlightInfo(ctx context.Context, date time.Time, flightNumber string) (*entity.FlightInfo, error)
}

// PageFetcher returns the raw detail page of a flight on a date
type PageFetcher interface {
	Fetch(ctx context.Context, date time.Time, designator string) (string, error)
}

// PageParser extracts the raw fields of a detail page
type PageParser interface {
	Parse(html string) (entity.RawFieldSet, error)
}

// ScrapeFlightSource runs the fetch, parse and normalize pipeline
type ScrapeFlightSource struct {
	fetcher    PageFetcher
	parser     PageParser
	normalizer *Normalizer
}

// NewScrapeFlightSource creates a new scraping flight source
func NewScrapeFlightSource(fetcher PageFetcher, parser PageParser, normalizer *Normalizer) *ScrapeFlightSource {
	return &ScrapeFlightSource{
		fetcher:    fetcher,
		parser:     parser,
		normalizer: normalizer,
	}
}

// Name identifies the source in logs and metrics
func (s *ScrapeFlightSource) Name() string {
	return "scrape"
}

// FlightInfo scrapes, normalizes and moves the result to the year of date
func (s *ScrapeFlightSource) FlightInfo(ctx context.Context, date time.Time, flightNumber string) (*entity.FlightInfo, error) {
	html, err := s.fetcher.Fetch(ctx, date, flightNumber)
	if err != nil {
		return nil, err
	}

	raw, err := s.parser.Parse(html)
	if err != nil {
		return nil, err
	}
	if raw.IsEmpty() {
		return nil, fmt.Errorf("%w: %s on %s", entity.ErrNoDataForDate, flightNumber, date.Format("2006-01-02"))
	}

	info, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		return nil, err
	}
	return info.WithYear(date.Year()), nil
}
