package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.URL, "dbname=safe_egypt_db")
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.LoginMaxAttempts)
	assert.True(t, cfg.Auth.SeedAdmin)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, "Admin@123", cfg.Auth.AdminPassword)
	assert.Empty(t, cfg.Mongo.URI)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 20*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, "incidents", cfg.Events.Exchange)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DRIVER":       "SQLite",
		"DATABASE_URL":    "file::memory:",
		"JWT_SECRET":      "s3cret",
		"TOKEN_TTL":       "2h",
		"SEED_ADMIN":      "false",
		"REDIS_ADDR":      "localhost:6379",
		"ENRICH_WORKERS":  "9",
		"IDEMPOTENCY_TTL": "1h",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.URL)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.SeedAdmin)
	assert.Equal(t, 9, cfg.Classifier.Workers)
	assert.Equal(t, time.Hour, cfg.Redis.IdempotencyTTL)
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoadWith_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"DB_DRIVER": "oracle"}))
	assert.Error(t, err)
}

func TestLoadWith_InvalidDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_TTL": "soon"}))
	assert.Error(t, err)
}

func TestValidateServe_RequiresSecret(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateServe(), "JWT_SECRET")
}
