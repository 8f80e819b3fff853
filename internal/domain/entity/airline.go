package entity

// Airline represents an airline entity
type Airline struct {
	Code string
	Name string
}
