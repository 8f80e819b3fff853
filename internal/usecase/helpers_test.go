package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/infrastructure/referencedata"
	"flightsync-service/internal/interface/aviability"
	"flightsync-service/internal/interface/repository"

	"github.com/stretchr/testify/require"
)

// zurichAlias is the code the detail page fixture uses for Zurich
var zurichAlias = entity.Airport{Code: "ZHR", Name: "Zurich Airport", City: "Zurich", CountryCode: "CH", TzName: "Europe/Zurich"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestNormalizer(t *testing.T, now time.Time) *Normalizer {
	t.Helper()
	airports, err := referencedata.Airports()
	require.NoError(t, err)
	countries, err := referencedata.Countries()
	require.NoError(t, err)
	airlines, err := referencedata.Airlines()
	require.NoError(t, err)

	return NewNormalizer(
		repository.NewMemoryAirportRepository(append(airports, zurichAlias)),
		repository.NewMemoryAirlineRepository(airlines),
		repository.NewFuzzyCountryResolver(countries, 0),
		fixedClock(now),
	)
}

func newTestParser(t *testing.T) *aviability.Parser {
	t.Helper()
	table, err := aviability.DefaultSelectors()
	require.NoError(t, err)
	return aviability.NewParser(table)
}

func readPageFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "interface", "aviability", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

// stubFetcher serves a fixed page and records the requests
type stubFetcher struct {
	html  string
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, date time.Time, designator string) (string, error) {
	f.calls++
	return f.html, f.err
}

// stubSource returns canned results per flight number
type stubSource struct {
	infos map[string]*entity.FlightInfo
	errs  map[string]error
	calls []string
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FlightInfo(ctx context.Context, date time.Time, flightNumber string) (*entity.FlightInfo, error) {
	s.calls = append(s.calls, flightNumber)
	if err, ok := s.errs[flightNumber]; ok {
		return nil, err
	}
	if info, ok := s.infos[flightNumber]; ok {
		return info, nil
	}
	return nil, entity.ErrFlightNotFound
}
