package google

import (
	"context"
	"fmt"
	"strings"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsRepository reads and rewrites the rows of the flights sheet
type SheetsRepository struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
	sheetName     string
	logger        logger.Logger
}

// NewSheetsRepository creates a new sheets repository. readRange is what FetchRows
// returns, sheetName prefixes the ranges written by UpdateRow.
func NewSheetsRepository(ctx context.Context, spreadsheetID, readRange, sheetName string, logger logger.Logger, opts ...option.ClientOption) (repository.SheetRepository, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// FetchRows returns the header row followed by the data rows as displayed
func (r *SheetsRepository) FetchRows(ctx context.Context) ([][]string, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, r.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = strings.TrimSpace(fmt.Sprint(v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateRow writes the row back with Date and Weekday recomputed by sheet formulas
func (r *SheetsRepository) UpdateRow(ctx context.Context, row entity.FlightRow) error {
	values := rowWithFormulas(row)

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	target := fmt.Sprintf("%s!A%d:ZZ%d", r.sheetName, row.Number, row.Number)
	_, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, target, &sheets.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", target, err)
	}

	r.logger.Info("Row updated", "range", target, "date", row.Get(entity.ColDate), "flightNumber", row.Get(entity.ColFlightNumber))
	return nil
}

// rowWithFormulas replaces the Date cell by DATE(Year, Month, Day) and the Weekday
// cell by TEXT(Date, "DDD"), referencing the columns where the header puts them
func rowWithFormulas(row entity.FlightRow) []string {
	values := row.Cells()
	index := make(map[string]int, len(row.Header))
	for i, col := range row.Header {
		index[col] = i
	}
	ref := func(col string) (string, bool) {
		i, ok := index[col]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s%d", columnLetter(i), row.Number), true
	}

	year, okY := ref(entity.ColYear)
	month, okM := ref(entity.ColMonth)
	day, okD := ref(entity.ColDay)
	if i, ok := index[entity.ColDate]; ok && okY && okM && okD {
		values[i] = fmt.Sprintf("=DATE(%s, MONTH(%s&1), %s)", year, month, day)
	}
	if date, ok := ref(entity.ColDate); ok {
		if i, ok := index[entity.ColWeekday]; ok {
			values[i] = fmt.Sprintf(`=TEXT(%s, "DDD")`, date)
		}
	}
	return values
}

// columnLetter converts a 0-based column index to A, B, ..., Z, AA, ...
func columnLetter(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append([]byte{byte('A' + (i-1)%26)}, b...)
	}
	return string(b)
}
