package repository

import "flightsync-service/internal/domain/entity"

// CountryResolver turns free-text country names into ISO records.
// Resolve returns entity.ErrCountryNotFound when nothing matches.
type CountryResolver interface {
	Resolve(text string) (*entity.Country, error)
	ByAlpha2(code string) (*entity.Country, error)
}
