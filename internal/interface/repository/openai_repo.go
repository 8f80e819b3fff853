package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// DefaultOpenAIBaseURL is the public OpenAI API
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

const flightSystemPrompt = `You extract and normalize schedule data of commercial flights.

The user sends {"flight_number": "<IATA designator>", "flight_date": "YYYY-MM-DD"}.
Look the flight up in several independent sources (the airline, FlightAware,
Flightradar24, Aviability and one more schedule aggregator). Prefer the airline when
sources disagree. When the date has no published data, infer it from the latest
consistent schedule and set data_quality.status to "scheduled" or "inferred".

Rules:
- airports are IATA codes, countries ISO 3166-1 alpha-2 codes
- departure_time and arrival_time are ISO 8601 date-times local to their airport
- duration is an ISO 8601 duration such as "PT1H30M"
- aircraft is the most specific known model, otherwise the family
- unknown values are null, never guessed

Answer with JSON only, no markdown, exactly these fields:
{
  "flight_number": string,
  "operating_flight_number": string,
  "airline": string,
  "operating_airline": string,
  "departure_airport": string,
  "arrival_airport": string,
  "departure_city": string,
  "arrival_city": string,
  "departure_country": string,
  "arrival_country": string,
  "departure_terminal": string | null,
  "arrival_terminal": string | null,
  "departure_time": string,
  "arrival_time": string,
  "duration": string,
  "aircraft": string | null,
  "route_distance_km": number | null,
  "data_sources": [{"source": string, "used_for": string}],
  "data_quality": {"status": "actual" | "scheduled" | "inferred", "confidence": "high" | "medium" | "low", "notes": string}
}`

// OpenAIRepository calls the OpenAI Responses API with web search enabled
type OpenAIRepository struct {
	client *resty.Client
	model  string
	logger logger.Logger
}

// NewOpenAIRepository creates a new OpenAI repository
func NewOpenAIRepository(baseURL, apiKey, model string, timeout time.Duration, logger logger.Logger) repository.FlightModelRepository {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &OpenAIRepository{
		client: client,
		model:  model,
		logger: logger,
	}
}

type responsesRequest struct {
	Model string           `json:"model"`
	Tools []responsesTool  `json:"tools,omitempty"`
	Input []responsesInput `json:"input"`
}

type responsesTool struct {
	Type string `json:"type"`
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ExtractFlight asks the model for one flight and returns its JSON answer
func (r *OpenAIRepository) ExtractFlight(ctx context.Context, flightNumber, flightDate string) (string, error) {
	user, err := json.Marshal(map[string]string{
		"flight_number": flightNumber,
		"flight_date":   flightDate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal prompt: %w", err)
	}

	body := responsesRequest{
		Model: r.model,
		Tools: []responsesTool{{Type: "web_search"}},
		Input: []responsesInput{
			{Role: "system", Content: flightSystemPrompt},
			{Role: "user", Content: string(user)},
		},
	}

	r.logger.Debug("Requesting flight from model", "model", r.model, "flightNumber", flightNumber, "flightDate", flightDate)

	var response responsesResponse
	res, err := r.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&response).
		SetError(&response).
		Post("/responses")
	if err != nil {
		return "", &entity.HTTPError{Method: "POST", URL: r.client.BaseURL + "/responses", Err: err}
	}
	if res.IsError() {
		if response.Error != nil {
			r.logger.Warn("Model request rejected", "status", res.StatusCode(), "message", response.Error.Message)
		}
		return "", &entity.HTTPError{Method: "POST", URL: r.client.BaseURL + "/responses", StatusCode: res.StatusCode()}
	}

	for _, item := range response.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" {
				return StripCodeFence(content.Text), nil
			}
		}
	}
	return "", fmt.Errorf("model response has no output_text")
}

// StripCodeFence removes a surrounding ``` or ```json fence from a model answer
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
