package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"
	"flightsync-service/pkg/utils"
)

// Skip reasons
const (
	SkipMissing     = "missing_values"
	SkipInvalidDate = "invalid_date"
	SkipPast        = "past"
)

// SyncResult counts what one run did with the rows of the sheet
type SyncResult struct {
	Rows    int
	Synced  int
	Skipped int
	Failed  int
}

// SyncProcessor walks the flights sheet row by row, looks every upcoming flight up,
// upserts its calendar event and writes the row back
type SyncProcessor struct {
	lookup       *FlightLookup
	sheetRepo    repository.SheetRepository
	calendarRepo repository.CalendarRepository
	metrics      *metrics.Metrics
	logger       logger.Logger
	location     *time.Location
	now          func() time.Time
}

// NewSyncProcessor creates a new sync processor. Sheet dates are read in loc.
func NewSyncProcessor(
	lookup *FlightLookup,
	sheetRepo repository.SheetRepository,
	calendarRepo repository.CalendarRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	loc *time.Location,
) *SyncProcessor {
	if loc == nil {
		loc = time.Local
	}
	return &SyncProcessor{
		lookup:       lookup,
		sheetRepo:    sheetRepo,
		calendarRepo: calendarRepo,
		metrics:      metrics,
		logger:       logger,
		location:     loc,
		now:          time.Now,
	}
}

// Run processes every data row. A failing row is logged and the run moves on; only a
// failure to read the sheet aborts it.
func (p *SyncProcessor) Run(ctx context.Context) (SyncResult, error) {
	var result SyncResult
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.SyncRuns.Inc()
			p.metrics.SyncTime.Observe(time.Since(start).Seconds())
		}
	}()

	rows, err := p.sheetRepo.FetchRows(ctx)
	if err != nil {
		p.countError("fetch_rows")
		return result, fmt.Errorf("fetch rows: %w", err)
	}
	if len(rows) == 0 {
		p.logger.Warn("Flights sheet is empty")
		return result, nil
	}

	header := rows[0]
	if missing := missingColumns(header, entity.ColDate, entity.ColFlightNumber); len(missing) > 0 {
		return result, fmt.Errorf("flights sheet header lacks columns %v", missing)
	}

	today := startOfDay(p.now().In(p.location))
	p.logger.Info("Starting sheet sync", "rows", len(rows)-1)

	for i, cells := range rows[1:] {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Rows++

		// sheet rows are 1-based and row 1 is the header
		row := entity.NewFlightRow(i+2, header, cells)
		switch p.processRow(ctx, row, today) {
		case rowSynced:
			result.Synced++
		case rowSkipped:
			result.Skipped++
		case rowFailed:
			result.Failed++
		}
	}

	p.logger.Info("Sheet sync finished",
		"rows", result.Rows, "synced", result.Synced, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

type rowOutcome int

const (
	rowSynced rowOutcome = iota
	rowSkipped
	rowFailed
)

func (p *SyncProcessor) processRow(ctx context.Context, row entity.FlightRow, today time.Time) rowOutcome {
	dateText := row.Get(entity.ColDate)
	flightNumber := row.Get(entity.ColFlightNumber)
	log := p.logger.With("row", row.Number, "date", dateText, "flightNumber", flightNumber)

	if dateText == "" || flightNumber == "" {
		log.Debug("Skipping row without date or flight number")
		p.countSkip(SkipMissing)
		return rowSkipped
	}

	date, err := utils.ParseSheetDate(dateText, p.location)
	if err != nil {
		log.Warn("Skipping row with unreadable date", "error", err)
		p.countSkip(SkipInvalidDate)
		return rowSkipped
	}
	if date.Before(today) {
		log.Debug("Skipping flight in the past")
		p.countSkip(SkipPast)
		return rowSkipped
	}

	info := p.lookup.GetFlightInfo(ctx, date, flightNumber)
	if info == nil {
		log.Error("Failed to get flight")
		p.countError("lookup")
		return rowFailed
	}

	eventID, err := p.calendarRepo.Upsert(ctx, info.CalendarEvent(), row.Get(entity.ColEventID))
	if err != nil {
		log.Error("Failed to upsert calendar event", "error", err)
		p.countError("calendar_upsert")
		return rowFailed
	}

	if err := p.sheetRepo.UpdateRow(ctx, row.WithFlightInfo(info, eventID)); err != nil {
		log.Error("Failed to update sheet row", "error", err)
		p.countError("sheet_update")
		return rowFailed
	}

	log.Info("Row synced", "eventID", eventID)
	if p.metrics != nil {
		p.metrics.RowsSynced.Inc()
	}
	return rowSynced
}

func (p *SyncProcessor) countSkip(reason string) {
	if p.metrics != nil {
		p.metrics.RowsSkipped.WithLabelValues(reason).Inc()
	}
}

func (p *SyncProcessor) countError(operation string) {
	if p.metrics != nil {
		p.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

func missingColumns(header []string, columns ...string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	var missing []string
	for _, col := range columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
