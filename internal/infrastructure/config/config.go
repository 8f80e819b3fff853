// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Flight sources
const (
	SourceScrape = "scrape"
	SourceAI     = "ai"
)

// Cache backends
const (
	CacheSQLite = "sqlite"
	CacheMongo  = "mongo"
	CacheNone   = "none"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string
	Timezone   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// HTTP
	HTTPTimeout   time.Duration
	HTTPUserAgent string

	// Aviability
	AviabilitySearchURL string
	SelectorsFile       string

	// Flight source
	FlightSource string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Cache
	CacheBackend string
	SQLitePath   string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL reference data, optional
	PostgresURI string

	// Google
	GoogleCredentialsFile string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRefreshToken    string
	CalendarID            string
	SpreadsheetID         string
	SheetReadRange        string
	SheetName             string

	// Scheduler
	SyncAt      string
	SyncOnStart bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Timezone:   getEnv("TZ_NAME", "Local"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		HTTPTimeout:   getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		HTTPUserAgent: getEnv("HTTP_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"),

		AviabilitySearchURL: getEnv("AVIABILITY_SEARCH_URL", "https://aviability.com/flight-number/index.php"),
		SelectorsFile:       getEnv("SELECTORS_FILE", ""),

		FlightSource: strings.ToLower(getEnv("FLIGHT_SOURCE", SourceScrape)),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-5.2"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		CacheBackend: strings.ToLower(getEnv("CACHE_BACKEND", CacheSQLite)),
		SQLitePath:   getEnv("SQLITE_PATH", ".cache/flights.db"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightsync"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken:    getEnv("GOOGLE_REFRESH_TOKEN", ""),
		CalendarID:            getEnv("CALENDAR_ID", "primary"),
		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		SheetReadRange:        getEnv("SHEET_READ_RANGE", "raw!A:W"),
		SheetName:             getEnv("SHEET_NAME", "raw"),

		SyncAt:      getEnv("SYNC_AT", "00:00"),
		SyncOnStart: getEnvAsBool("SYNC_ON_START", false),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.FlightSource {
	case SourceScrape:
	case SourceAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when FLIGHT_SOURCE=ai")
		}
	default:
		return fmt.Errorf("unknown FLIGHT_SOURCE %q", c.FlightSource)
	}

	switch c.CacheBackend {
	case CacheSQLite, CacheMongo, CacheNone:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if _, err := time.Parse("15:04", c.SyncAt); err != nil {
		return fmt.Errorf("invalid SYNC_AT %q: %w", c.SyncAt, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the zone sheet dates and the schedule are read in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("45s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
