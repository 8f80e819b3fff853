package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func testOptions(srv *httptest.Server) []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	}
}

func testEvent(t *testing.T) entity.CalendarEvent {
	t.Helper()
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	zurich, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)
	return entity.CalendarEvent{
		Summary:     "✈️ FRA → ZRH LH2206",
		Description: "details",
		Start:       time.Date(2025, 7, 19, 18, 40, 0, 0, berlin),
		StartZone:   "Europe/Berlin",
		End:         time.Date(2025, 7, 19, 19, 45, 0, 0, zurich),
		EndZone:     "Europe/Zurich",
	}
}

func TestCalendarUpsertInserts(t *testing.T) {
	var method, path string
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"evt-new"}`))
	}))
	defer srv.Close()

	repo, err := NewCalendarRepository(context.Background(), "flights@group", logger.NewNop(), testOptions(srv)...)
	require.NoError(t, err)

	id, err := repo.Upsert(context.Background(), testEvent(t), "")
	require.NoError(t, err)
	require.Equal(t, "evt-new", id)
	require.Equal(t, http.MethodPost, method)
	require.True(t, strings.HasSuffix(path, "/calendars/flights@group/events"), path)

	start := body["start"].(map[string]interface{})
	require.Equal(t, "2025-07-19T18:40:00+02:00", start["dateTime"])
	require.Equal(t, "Europe/Berlin", start["timeZone"])
	end := body["end"].(map[string]interface{})
	require.Equal(t, "2025-07-19T19:45:00+02:00", end["dateTime"])
	require.Equal(t, "Europe/Zurich", end["timeZone"])
	require.Equal(t, "✈️ FRA → ZRH LH2206", body["summary"])
}

func TestCalendarUpsertUpdates(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"evt-1"}`))
	}))
	defer srv.Close()

	repo, err := NewCalendarRepository(context.Background(), "", logger.NewNop(), testOptions(srv)...)
	require.NoError(t, err)

	id, err := repo.Upsert(context.Background(), testEvent(t), "evt-1")
	require.NoError(t, err)
	require.Equal(t, "evt-1", id)
	require.Equal(t, http.MethodPut, method)
	require.True(t, strings.HasSuffix(path, "/calendars/primary/events/evt-1"), path)
}

func TestCalendarUpsertError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	}))
	defer srv.Close()

	repo, err := NewCalendarRepository(context.Background(), "", logger.NewNop(), testOptions(srv)...)
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), testEvent(t), "gone")
	require.Error(t, err)
}

func TestSheetsFetchRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-1/values/")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range":"raw!A1:W3","values":[["Year","Date","Flight #"],["2025","2025-07-19","LH2206"],[2026]]}`))
	}))
	defer srv.Close()

	repo, err := NewSheetsRepository(context.Background(), "sheet-1", "raw!A:W", "raw", logger.NewNop(), testOptions(srv)...)
	require.NoError(t, err)

	rows, err := repo.FetchRows(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Year", "Date", "Flight #"},
		{"2025", "2025-07-19", "LH2206"},
		{"2026"},
	}, rows)
}

func TestSheetsUpdateRowWritesFormulas(t *testing.T) {
	var path, inputOption string
	var body struct {
		Values [][]string `json:"values"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		path = r.URL.Path
		inputOption = r.URL.Query().Get("valueInputOption")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"updatedRows":1}`))
	}))
	defer srv.Close()

	repo, err := NewSheetsRepository(context.Background(), "sheet-1", "raw!A:W", "raw", logger.NewNop(), testOptions(srv)...)
	require.NoError(t, err)

	header := []string{"Year", "Month", "Day", "Weekday", "Date", "Flight #"}
	row := entity.NewFlightRow(7, header, []string{"2025", "Jul", "19", "Sat", "2025-07-19", "LH2206"})
	require.NoError(t, repo.UpdateRow(context.Background(), row))

	require.True(t, strings.HasSuffix(path, "/values/raw!A7:ZZ7"), path)
	require.Equal(t, "USER_ENTERED", inputOption)
	require.Equal(t, [][]string{{
		"2025", "Jul", "19",
		`=TEXT(E7, "DDD")`,
		"=DATE(A7, MONTH(B7&1), C7)",
		"LH2206",
	}}, body.Values)
}

func TestColumnLetter(t *testing.T) {
	require.Equal(t, "A", columnLetter(0))
	require.Equal(t, "E", columnLetter(4))
	require.Equal(t, "Z", columnLetter(25))
	require.Equal(t, "AA", columnLetter(26))
	require.Equal(t, "ZZ", columnLetter(701))
}
