package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakeSheet struct {
	rows    [][]string
	err     error
	updated []entity.FlightRow
}

func (s *fakeSheet) FetchRows(ctx context.Context) ([][]string, error) {
	return s.rows, s.err
}

func (s *fakeSheet) UpdateRow(ctx context.Context, row entity.FlightRow) error {
	s.updated = append(s.updated, row)
	return nil
}

type fakeCalendar struct {
	events  []entity.CalendarEvent
	ids     []string
	failFor string
	next    int
}

func (c *fakeCalendar) Upsert(ctx context.Context, event entity.CalendarEvent, eventID string) (string, error) {
	if c.failFor != "" && strings.HasSuffix(event.Summary, c.failFor) {
		return "", fmt.Errorf("calendar unavailable")
	}
	c.events = append(c.events, event)
	c.ids = append(c.ids, eventID)
	if eventID != "" {
		return eventID, nil
	}
	c.next++
	return fmt.Sprintf("evt%d", c.next), nil
}

func testFlight(t *testing.T, flightNumber string) *entity.FlightInfo {
	t.Helper()
	berlin := mustLoad(t, "Europe/Berlin")
	zurich := mustLoad(t, "Europe/Zurich")
	return &entity.FlightInfo{
		FlightNumber:     flightNumber,
		Airline:          "Lufthansa",
		DepartureAirport: "FRA",
		ArrivalAirport:   "ZRH",
		DepartureCountry: entity.Country{Alpha2: "DE", Name: "Germany"},
		ArrivalCountry:   entity.Country{Alpha2: "CH", Name: "Switzerland"},
		DepartureCity:    "Frankfurt",
		ArrivalCity:      "Zurich",
		DepartureTime:    time.Date(2025, 7, 19, 18, 40, 0, 0, berlin),
		ArrivalTime:      time.Date(2025, 7, 19, 19, 45, 0, 0, zurich),
		Duration:         65 * time.Minute,
		DataQuality:      entity.DefaultDataQuality,
	}
}

func newTestSync(t *testing.T, source FlightSource, sheet *fakeSheet, cal *fakeCalendar, m *metrics.Metrics) *SyncProcessor {
	t.Helper()
	loc := mustLoad(t, "Europe/Zurich")
	p := NewSyncProcessor(NewFlightLookup(source, m, logger.NewNop()), sheet, cal, m, logger.NewNop(), loc)
	p.now = fixedClock(time.Date(2025, 7, 19, 12, 0, 0, 0, loc))
	return p
}

var syncHeader = []string{entity.ColDate, entity.ColFlightNumber, entity.ColWeekday, entity.ColDepartureTime,
	entity.ColArrivalTime, entity.ColDuration, entity.ColEventID, entity.ColDurationSeconds, entity.ColNote}

func TestSyncProcessorRun(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	source := &stubSource{
		infos: map[string]*entity.FlightInfo{
			"LH2206": testFlight(t, "LH2206"),
			"LX1071": testFlight(t, "LX1071"),
		},
	}
	sheet := &fakeSheet{rows: [][]string{
		syncHeader,
		{"2025-07-19", "LH2206", "", "", "", "", "", "", "window seat"},
		{"", "LH2207"},
		{"2025-07-18", "LH2208"},
		{"someday", "LH2209"},
		{"2025-07-20", "XX999"},
		{"2025-07-21", "LX1071", "", "", "", "", "abc123"},
	}}
	cal := &fakeCalendar{}

	result, err := newTestSync(t, source, sheet, cal, m).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, SyncResult{Rows: 6, Synced: 2, Skipped: 3, Failed: 1}, result)

	// skipped rows never reach the source
	require.Equal(t, []string{"LH2206", "XX999", "LX1071"}, source.calls)

	// a new event for the first row, the existing one is updated
	require.Equal(t, []string{"", "abc123"}, cal.ids)
	require.Len(t, sheet.updated, 2)

	first := sheet.updated[0]
	require.Equal(t, 2, first.Number)
	require.Equal(t, "evt1", first.Get(entity.ColEventID))
	require.Equal(t, "Sat", first.Get(entity.ColWeekday))
	require.Equal(t, "18:40 (CEST +2)", first.Get(entity.ColDepartureTime))
	require.Equal(t, "19:45 (CEST +2)", first.Get(entity.ColArrivalTime))
	require.Equal(t, "01:05", first.Get(entity.ColDuration))
	require.Equal(t, "3900", first.Get(entity.ColDurationSeconds))
	require.Equal(t, "window seat", first.Get(entity.ColNote))

	second := sheet.updated[1]
	require.Equal(t, 7, second.Number)
	require.Equal(t, "abc123", second.Get(entity.ColEventID))

	require.Equal(t, 2.0, testutil.ToFloat64(m.RowsSynced))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues(SkipMissing)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues(SkipPast)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues(SkipInvalidDate)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsCount.WithLabelValues("lookup")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.SyncRuns))
}

func TestSyncProcessorContinuesAfterCalendarFailure(t *testing.T) {
	source := &stubSource{
		infos: map[string]*entity.FlightInfo{
			"LH2206": testFlight(t, "LH2206"),
			"LX1071": testFlight(t, "LX1071"),
		},
	}
	sheet := &fakeSheet{rows: [][]string{
		syncHeader,
		{"2025-07-19", "LH2206"},
		{"2025-07-20", "LX1071"},
	}}
	cal := &fakeCalendar{failFor: "LH2206"}

	result, err := newTestSync(t, source, sheet, cal, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, SyncResult{Rows: 2, Synced: 1, Failed: 1}, result)
	require.Len(t, sheet.updated, 1)
	require.Equal(t, 3, sheet.updated[0].Number)
}

func TestSyncProcessorSheetErrors(t *testing.T) {
	source := &stubSource{}

	_, err := newTestSync(t, source, &fakeSheet{err: errors.New("quota exceeded")}, &fakeCalendar{}, nil).Run(context.Background())
	require.ErrorContains(t, err, "quota exceeded")

	_, err = newTestSync(t, source, &fakeSheet{rows: [][]string{{"Year", "Month"}}}, &fakeCalendar{}, nil).Run(context.Background())
	require.ErrorContains(t, err, "lacks columns")

	result, err := newTestSync(t, source, &fakeSheet{}, &fakeCalendar{}, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, SyncResult{}, result)
}
