package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
)

// SQLiteFlightCacheRepository implements FlightCacheRepository over the flight_records table
type SQLiteFlightCacheRepository struct {
	db *sql.DB
}

// NewSQLiteFlightCacheRepository expects a migrated database, see persistence.NewSQLiteDB
func NewSQLiteFlightCacheRepository(db *sql.DB) repository.FlightCacheRepository {
	return &SQLiteFlightCacheRepository{db: db}
}

// Get finds the cached record of a flight on a date
func (r *SQLiteFlightCacheRepository) Get(ctx context.Context, flightNumber, flightDate string) (*entity.FlightRecord, error) {
	var record entity.FlightRecord
	var fetchedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT flight_number, flight_date, payload, fetched_at FROM flight_records WHERE flight_number = ? AND flight_date = ?`,
		cacheKey(flightNumber), flightDate,
	).Scan(&record.FlightNumber, &record.FlightDate, &record.Payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	record.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Put creates or replaces the cached record
func (r *SQLiteFlightCacheRepository) Put(ctx context.Context, record *entity.FlightRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flight_records (flight_number, flight_date, payload, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (flight_number, flight_date) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		cacheKey(record.FlightNumber), record.FlightDate, record.Payload, record.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}
