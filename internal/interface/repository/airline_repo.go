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

// MemoryAirlineRepository implements the AirlineRepository interface
type MemoryAirlineRepository struct {
	airlines map[string]entity.Airline
}

// NewMemoryAirlineRepository creates a new in-memory airline repository
func NewMemoryAirlineRepository(airlines []entity.Airline) repository.AirlineRepository {
	byCode := make(map[string]entity.Airline, len(airlines))
	for _, a := range airlines {
		byCode[strings.ToUpper(a.Code)] = a
	}
	return &MemoryAirlineRepository{airlines: byCode}
}

// GetByCode finds an airline by code
func (r *MemoryAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	airline, ok := r.airlines[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrAirlineNotFound, code)
	}
	return &airline, nil
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name;unique"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

// LoadAirlines reads every airline of the m_airlines table
func LoadAirlines(ctx context.Context, db *gorm.DB) ([]entity.Airline, error) {
	var rows []Airlines
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load airlines: %w", err)
	}

	airlines := make([]entity.Airline, 0, len(rows))
	for _, row := range rows {
		if row.Code == "" {
			continue
		}
		airlines = append(airlines, entity.Airline{Code: strings.ToUpper(row.Code), Name: row.Name})
	}
	return airlines, nil
}
