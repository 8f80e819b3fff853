package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}\n```\n"))
	require.Equal(t, `{"a":1}`, StripCodeFence(`  {"a":1} `))
}

func TestOpenAIRepositoryExtractFlight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/responses", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req responsesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-test", req.Model)
		require.Equal(t, "web_search", req.Tools[0].Type)
		require.Len(t, req.Input, 2)
		require.JSONEq(t, `{"flight_number":"LX4407","flight_date":"2025-07-23"}`, req.Input[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":[
			{"type":"web_search_call","status":"completed"},
			{"type":"message","content":[{"type":"output_text","text":"` + "```json\\n{\\\"flight_number\\\":\\\"LX4407\\\"}\\n```" + `"}]}
		]}`))
	}))
	defer srv.Close()

	repo := NewOpenAIRepository(srv.URL+"/v1", "sk-test", "gpt-test", 5*time.Second, logger.NewNop())
	text, err := repo.ExtractFlight(context.Background(), "LX4407", "2025-07-23")
	require.NoError(t, err)
	require.JSONEq(t, `{"flight_number":"LX4407"}`, text)
}

func TestOpenAIRepositoryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	repo := NewOpenAIRepository(srv.URL, "nope", "gpt-test", 5*time.Second, logger.NewNop())
	_, err := repo.ExtractFlight(context.Background(), "LX4407", "2025-07-23")

	var httpErr *entity.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestOpenAIRepositoryNoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":[{"type":"reasoning"}]}`))
	}))
	defer srv.Close()

	repo := NewOpenAIRepository(srv.URL, "sk-test", "gpt-test", 5*time.Second, logger.NewNop())
	_, err := repo.ExtractFlight(context.Background(), "LX4407", "2025-07-23")
	require.Error(t, err)
}
