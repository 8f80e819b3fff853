package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/utils"
)

// Normalizer converts scraped strings into a FlightInfo
type Normalizer struct {
	airportRepo repository.AirportRepository
	airlineRepo repository.AirlineRepository
	countries   repository.CountryResolver
	now         func() time.Time
}

// NewNormalizer creates a new normalizer. now supplies the provisional year of the
// year-less scraped dates; nil means time.Now.
func NewNormalizer(
	airportRepo repository.AirportRepository,
	airlineRepo repository.AirlineRepository,
	countries repository.CountryResolver,
	now func() time.Time,
) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		airportRepo: airportRepo,
		airlineRepo: airlineRepo,
		countries:   countries,
		now:         now,
	}
}

// endpoint is one side of a flight after normalization
type endpoint struct {
	code     string
	city     string
	country  entity.Country
	terminal *string
	time     time.Time
}

// Normalize builds a FlightInfo from raw fields. Any failing field aborts with a
// *entity.NormalizationError naming it. The year of both times is provisional, see
// FlightInfo.WithYear.
func (n *Normalizer) Normalize(ctx context.Context, raw entity.RawFieldSet) (*entity.FlightInfo, error) {
	flightNumber := strings.ToUpper(strings.Join(strings.Fields(raw.FlightNumber), ""))
	if flightNumber == "" {
		return nil, &entity.NormalizationError{Field: "flight_number", Value: raw.FlightNumber, Err: fmt.Errorf("missing")}
	}

	year := n.now().Year()

	dep, err := n.endpoint(ctx, "departure", year,
		raw.DepartureAirport, raw.DepartureCountry, raw.DepartureTerminal, raw.DepartureDate, raw.DepartureTime)
	if err != nil {
		return nil, err
	}
	arr, err := n.endpoint(ctx, "arrival", year,
		raw.ArrivalAirport, raw.ArrivalCountry, raw.ArrivalTerminal, raw.ArrivalDate, raw.ArrivalTime)
	if err != nil {
		return nil, err
	}

	duration, err := utils.ParseDuration(raw.Duration)
	if err != nil {
		return nil, &entity.NormalizationError{Field: "duration", Value: raw.Duration, Err: err}
	}

	info := &entity.FlightInfo{
		FlightNumber:      flightNumber,
		Airline:           n.airline(ctx, raw.Airline, flightNumber),
		DepartureAirport:  dep.code,
		ArrivalAirport:    arr.code,
		DepartureCountry:  dep.country,
		ArrivalCountry:    arr.country,
		DepartureCity:     dep.city,
		ArrivalCity:       arr.city,
		DepartureTerminal: dep.terminal,
		ArrivalTerminal:   arr.terminal,
		DepartureTime:     dep.time,
		ArrivalTime:       arr.time,
		Duration:          duration,
		Aircraft:          optional(raw.Aircraft),
		DataQuality:       entity.DefaultDataQuality,
	}
	return info, nil
}

func (n *Normalizer) endpoint(ctx context.Context, side string, year int, airportText, countryText, terminalText, dateText, timeText string) (endpoint, error) {
	var ep endpoint

	ep.code = utils.ExtractAirportCode(airportText)
	if ep.code == "" {
		return ep, &entity.NormalizationError{Field: side + "_airport", Value: airportText, Err: fmt.Errorf("missing")}
	}
	airport, err := n.airportRepo.GetByCode(ctx, ep.code)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_airport", Value: airportText, Err: err}
	}
	ep.city = airport.City

	loc, err := time.LoadLocation(airport.TzName)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_airport", Value: airportText, Err: err}
	}

	country, err := n.countries.Resolve(utils.ExtractCountryName(countryText))
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_country", Value: countryText, Err: err}
	}
	ep.country = *country

	ep.terminal = utils.NormalizeTerminal(terminalText)

	month, day, err := utils.ParseMonthDay(dateText)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_date", Value: dateText, Err: err}
	}
	hour, minute, err := utils.ParseClock(timeText)
	if err != nil {
		return ep, &entity.NormalizationError{Field: side + "_time", Value: timeText, Err: err}
	}

	ep.time = time.Date(provisionalYear(year, month, day), month, day, hour, minute, 0, 0, loc)
	return ep, nil
}

// airline keeps the scraped name, otherwise looks up the designator prefix. The bare
// prefix is used when the airline is unknown.
func (n *Normalizer) airline(ctx context.Context, scraped, flightNumber string) string {
	if name := strings.TrimSpace(scraped); name != "" {
		return name
	}
	code, _, err := utils.SplitDesignator(flightNumber)
	if err != nil {
		return ""
	}
	if n.airlineRepo != nil {
		if airline, err := n.airlineRepo.GetByCode(ctx, code); err == nil {
			return airline.Name
		}
	}
	return code
}

// provisionalYear keeps Feb 29 representable until the year is corrected
func provisionalYear(year int, month time.Month, day int) int {
	if month != time.February || day != 29 {
		return year
	}
	for !isLeap(year) {
		year++
	}
	return year
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
