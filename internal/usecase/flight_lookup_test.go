package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGetFlightInfoNoFlightsIsNil(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	source := NewScrapeFlightSource(&stubFetcher{html: readPageFixture(t, "no_flights.html")}, newTestParser(t), newTestNormalizer(t, time.Now()))
	lookup := NewFlightLookup(source, m, logger.NewNop())

	info := lookup.GetFlightInfo(context.Background(), time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC), "LH2206")
	require.Nil(t, info)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("scrape", metrics.OutcomeNoData)))
}

func TestGetFlightInfoConvertsEveryFailure(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	source := &stubSource{
		infos: map[string]*entity.FlightInfo{"LX1": {FlightNumber: "LX1"}},
		errs: map[string]error{
			"HTTP1": &entity.HTTPError{Method: "POST", URL: "u", StatusCode: 500},
			"NORM1": &entity.NormalizationError{Field: "duration", Value: "x", Err: fmt.Errorf("bad")},
			"OOPS1": fmt.Errorf("boom"),
		},
	}
	lookup := NewFlightLookup(source, m, logger.NewNop())
	ctx := context.Background()
	date := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)

	require.NotNil(t, lookup.GetFlightInfo(ctx, date, "LX1"))
	for _, fn := range []string{"HTTP1", "NORM1", "OOPS1", "MISSING"} {
		require.Nil(t, lookup.GetFlightInfo(ctx, date, fn), fn)
	}

	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("stub", metrics.OutcomeFound)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("stub", metrics.OutcomeHTTPError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("stub", metrics.OutcomeNormalization)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("stub", metrics.OutcomeError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("stub", metrics.OutcomeNotFound)))
}
