package repository

import (
	"context"

	"flightsync-service/internal/domain/entity"
)

// SheetRepository reads and rewrites rows of the flights sheet
type SheetRepository interface {
	// FetchRows returns the header row followed by the raw data rows
	FetchRows(ctx context.Context) ([][]string, error)
	UpdateRow(ctx context.Context, row entity.FlightRow) error
}
