// Package referencedata holds the embedded airport, country and airline tables.
package referencedata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strings"

	"flightsync-service/internal/domain/entity"
)

//go:embed airports.csv
var airportsCSV []byte

//go:embed countries.csv
var countriesCSV []byte

//go:embed airlines.csv
var airlinesCSV []byte

func readTable(name string, data []byte, columns int) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = columns
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("referencedata: read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("referencedata: %s is empty", name)
	}
	// drop header
	return records[1:], nil
}

// Airports returns the embedded airport table
func Airports() ([]entity.Airport, error) {
	records, err := readTable("airports.csv", airportsCSV, 5)
	if err != nil {
		return nil, err
	}
	airports := make([]entity.Airport, 0, len(records))
	for _, rec := range records {
		airports = append(airports, entity.Airport{
			Code:        rec[0],
			Name:        rec[1],
			City:        rec[2],
			CountryCode: rec[3],
			TzName:      rec[4],
		})
	}
	return airports, nil
}

// Countries returns the embedded ISO 3166-1 table
func Countries() ([]entity.Country, error) {
	records, err := readTable("countries.csv", countriesCSV, 5)
	if err != nil {
		return nil, err
	}
	countries := make([]entity.Country, 0, len(records))
	for _, rec := range records {
		var aliases []string
		if rec[4] != "" {
			aliases = strings.Split(rec[4], "|")
		}
		countries = append(countries, entity.Country{
			Alpha2:  rec[0],
			Alpha3:  rec[1],
			Numeric: rec[2],
			Name:    rec[3],
			Aliases: aliases,
		})
	}
	return countries, nil
}

// Airlines returns the embedded airline table
func Airlines() ([]entity.Airline, error) {
	records, err := readTable("airlines.csv", airlinesCSV, 2)
	if err != nil {
		return nil, err
	}
	airlines := make([]entity.Airline, 0, len(records))
	for _, rec := range records {
		airlines = append(airlines, entity.Airline{Code: rec[0], Name: rec[1]})
	}
	return airlines, nil
}
