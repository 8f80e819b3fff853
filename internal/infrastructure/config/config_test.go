package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FLIGHT_SOURCE", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("SYNC_AT", "")
	t.Setenv("TZ_NAME", "UTC")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, SourceScrape, cfg.FlightSource)
	require.Equal(t, CacheSQLite, cfg.CacheBackend)
	require.Equal(t, "00:00", cfg.SyncAt)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "raw", cfg.SheetName)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("FLIGHT_SOURCE", "AI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CACHE_BACKEND", "none")
	t.Setenv("HTTP_TIMEOUT", "45")
	t.Setenv("SYNC_AT", "06:30")
	t.Setenv("SYNC_ON_START", "true")
	t.Setenv("TZ_NAME", "Europe/Zurich")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, SourceAI, cfg.FlightSource)
	require.Equal(t, CacheNone, cfg.CacheBackend)
	require.Equal(t, 45*time.Second, cfg.HTTPTimeout)
	require.True(t, cfg.SyncOnStart)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Zurich", loc.String())
}

func TestValidate(t *testing.T) {
	valid := Config{FlightSource: SourceScrape, CacheBackend: CacheNone, SyncAt: "00:00", Timezone: "UTC"}
	require.NoError(t, valid.Validate())

	aiWithoutKey := valid
	aiWithoutKey.FlightSource = SourceAI
	require.Error(t, aiWithoutKey.Validate())

	badCache := valid
	badCache.CacheBackend = "redis"
	require.Error(t, badCache.Validate())

	badTime := valid
	badTime.SyncAt = "25:00"
	require.Error(t, badTime.Validate())

	badZone := valid
	badZone.Timezone = "Mars/Olympus"
	require.Error(t, badZone.Validate())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("X_DURATION", "1m30s")
	require.Equal(t, 90*time.Second, getEnvAsDuration("X_DURATION", time.Second))
	t.Setenv("X_DURATION", "junk")
	require.Equal(t, time.Second, getEnvAsDuration("X_DURATION", time.Second))
}
