package entity

// Airport represents the reference data of an airport, keyed by its IATA code
type Airport struct {
	Code        string
	Name        string
	City        string
	CountryCode string
	TzName      string
}
