package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrFlightNotFound is returned when the search step yields no page for the designator
	ErrFlightNotFound = errors.New("flight not found")
	// ErrNoDataForDate is returned when the detail page lists no flight for the requested date
	ErrNoDataForDate = errors.New("no flight data for date")
	// ErrAirportNotFound is returned by airport lookups for unknown codes
	ErrAirportNotFound = errors.New("airport not found")
	// ErrCountryNotFound is returned when free text cannot be resolved to a country
	ErrCountryNotFound = errors.New("country not found")
	// ErrAirlineNotFound is returned by airline lookups for unknown codes
	ErrAirlineNotFound = errors.New("airline not found")
	// ErrCacheMiss is returned by flight caches when no record exists for a key
	ErrCacheMiss = errors.New("cache miss")
)

// HTTPError is a transport or status failure while talking to an upstream site
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NormalizationError names the raw field that could not be converted
type NormalizationError struct {
	Field string
	Value string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}
