package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"gorm.io/gorm"
)

// MemoryAirportRepository implements the AirportRepository interface over an immutable map
type MemoryAirportRepository struct {
	airports map[string]entity.Airport
}

// NewMemoryAirportRepository indexes the given airports by IATA code. Later entries win.
func NewMemoryAirportRepository(airports []entity.Airport) repository.AirportRepository {
	byCode := make(map[string]entity.Airport, len(airports))
	for _, a := range airports {
		byCode[strings.ToUpper(a.Code)] = a
	}
	return &MemoryAirportRepository{airports: byCode}
}

// GetByCode finds an airport by IATA code
func (r *MemoryAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	airport, ok := r.airports[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrAirportNotFound, code)
	}
	return &airport, nil
}

// Timezonelist GORM model for database mapping
type Timezonelist struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airportcode;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityCode    string         `gorm:"column:citycode"`
	CityName    string         `gorm:"column:cityname"`
	CountryCode string         `gorm:"column:countrycode"`
	GmtTz       string         `gorm:"column:gmttz"`
	TzName      string         `gorm:"column:tzname"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Timezonelist) TableName() string {
	return "m_timezone_list"
}

// LoadAirports reads the airport timezone table. Rows without a loadable IANA zone are skipped.
func LoadAirports(ctx context.Context, db *gorm.DB) ([]entity.Airport, error) {
	var rows []Timezonelist
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load airports: %w", err)
	}

	airports := make([]entity.Airport, 0, len(rows))
	for _, row := range rows {
		if row.AirportCode == "" || row.TzName == "" {
			continue
		}
		if _, err := time.LoadLocation(row.TzName); err != nil {
			continue
		}
		airports = append(airports, entity.Airport{
			Code:        strings.ToUpper(row.AirportCode),
			Name:        row.AirportName,
			City:        row.CityName,
			CountryCode: strings.ToUpper(row.CountryCode),
			TzName:      row.TzName,
		})
	}
	return airports, nil
}
