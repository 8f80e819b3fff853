// Package app wires configuration, reference data, flight sources and the Google
// sinks into the services used by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/internal/infrastructure/config"
	"flightsync-service/internal/infrastructure/oauth"
	"flightsync-service/internal/infrastructure/persistence"
	"flightsync-service/internal/infrastructure/referencedata"
	"flightsync-service/internal/interface/aviability"
	"flightsync-service/internal/interface/google"
	repo "flightsync-service/internal/interface/repository"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the long lived services of one process
type App struct {
	Config    *config.Config
	Logger    logger.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Location  *time.Location
	Airports  repository.AirportRepository
	Airlines  repository.AirlineRepository
	Countries repository.CountryResolver
	Source    usecase.FlightSource
	Lookup    *usecase.FlightLookup

	closers []func(context.Context) error
}

// New builds the lookup side of the service. Google clients are only created by
// NewSyncProcessor so that lookups work without credentials.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &App{
		Config:   cfg,
		Logger:   log,
		Registry: registry,
		Metrics:  metrics.NewMetrics("flightsync", registry),
		Location: loc,
	}

	airports, airlines, countries, err := a.referenceData(ctx)
	if err != nil {
		return nil, err
	}
	a.Airports = repo.NewMemoryAirportRepository(airports)
	a.Airlines = repo.NewMemoryAirlineRepository(airlines)
	a.Countries = repo.NewFuzzyCountryResolver(countries, repo.DefaultCountryMatchThreshold)

	switch cfg.FlightSource {
	case config.SourceAI:
		a.Source, err = a.aiSource(ctx)
	default:
		a.Source, err = a.scrapeSource()
	}
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Lookup = usecase.NewFlightLookup(a.Source, a.Metrics, log)

	log.Info("Flight source ready", "source", a.Source.Name(), "airports", len(airports), "airlines", len(airlines))
	return a, nil
}

// referenceData returns the embedded tables, extended by the PostgreSQL tables when
// a DSN is configured. Database rows win over embedded rows with the same code.
func (a *App) referenceData(ctx context.Context) ([]entity.Airport, []entity.Airline, []entity.Country, error) {
	airports, err := referencedata.Airports()
	if err != nil {
		return nil, nil, nil, err
	}
	airlines, err := referencedata.Airlines()
	if err != nil {
		return nil, nil, nil, err
	}
	countries, err := referencedata.Countries()
	if err != nil {
		return nil, nil, nil, err
	}

	if a.Config.PostgresURI == "" {
		return airports, airlines, countries, nil
	}

	db, err := persistence.NewPostgresDB(a.Config.PostgresURI)
	if err != nil {
		return nil, nil, nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	extraAirports, err := repo.LoadAirports(ctx, db)
	if err != nil {
		return nil, nil, nil, err
	}
	extraAirlines, err := repo.LoadAirlines(ctx, db)
	if err != nil {
		return nil, nil, nil, err
	}
	a.Logger.Info("Loaded reference data from PostgreSQL", "airports", len(extraAirports), "airlines", len(extraAirlines))

	return append(airports, extraAirports...), append(airlines, extraAirlines...), countries, nil
}

func (a *App) scrapeSource() (usecase.FlightSource, error) {
	table, err := aviability.DefaultSelectors()
	if a.Config.SelectorsFile != "" {
		table, err = aviability.LoadSelectors(a.Config.SelectorsFile)
	}
	if err != nil {
		return nil, err
	}

	extractor := aviability.NewExtractor(aviability.ExtractorConfig{
		SearchURL: a.Config.AviabilitySearchURL,
		Timeout:   a.Config.HTTPTimeout,
		UserAgent: a.Config.HTTPUserAgent,
	})
	normalizer := usecase.NewNormalizer(a.Airports, a.Airlines, a.Countries, time.Now)
	return usecase.NewScrapeFlightSource(extractor, aviability.NewParser(table), normalizer), nil
}

func (a *App) aiSource(ctx context.Context) (usecase.FlightSource, error) {
	cache, err := a.flightCache(ctx)
	if err != nil {
		return nil, err
	}
	model := repo.NewOpenAIRepository(a.Config.OpenAIBaseURL, a.Config.OpenAIAPIKey, a.Config.OpenAIModel, a.Config.HTTPTimeout, a.Logger)
	return usecase.NewAIFlightSource(model, cache, a.Airports, a.Countries, a.Metrics, a.Logger), nil
}

func (a *App) flightCache(ctx context.Context) (repository.FlightCacheRepository, error) {
	switch a.Config.CacheBackend {
	case config.CacheMongo:
		client, db, err := persistence.NewMongoDatabase(ctx, a.Config.MongoURI, a.Config.MongoUser, a.Config.MongoPassword, a.Config.MongoDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		a.Logger.Info("Using MongoDB flight cache", "database", a.Config.MongoDB)
		return repo.NewMongoFlightCacheRepository(ctx, db)
	case config.CacheNone:
		return repo.NewNopFlightCacheRepository(), nil
	default:
		db, err := persistence.NewSQLiteDB(a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		a.Logger.Info("Using SQLite flight cache", "path", a.Config.SQLitePath)
		return repo.NewSQLiteFlightCacheRepository(db), nil
	}
}

// NewSyncProcessor connects to Google Calendar and Sheets and returns the sheet sync
func (a *App) NewSyncProcessor(ctx context.Context) (*usecase.SyncProcessor, error) {
	if a.Config.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is required for syncing")
	}

	opts, err := oauth.ClientOptions(ctx,
		a.Config.GoogleCredentialsFile,
		a.Config.GoogleClientID,
		a.Config.GoogleClientSecret,
		a.Config.GoogleRefreshToken,
		a.Logger,
	)
	if err != nil {
		return nil, err
	}

	calendarRepo, err := google.NewCalendarRepository(ctx, a.Config.CalendarID, a.Logger, opts...)
	if err != nil {
		return nil, err
	}
	sheetRepo, err := google.NewSheetsRepository(ctx, a.Config.SpreadsheetID, a.Config.SheetReadRange, a.Config.SheetName, a.Logger, opts...)
	if err != nil {
		return nil, err
	}

	return usecase.NewSyncProcessor(a.Lookup, sheetRepo, calendarRepo, a.Metrics, a.Logger, a.Location), nil
}

// Close releases cache connections
func (a *App) Close(ctx context.Context) {
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			a.Logger.Error("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}
