// Package config loads process configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	LogFile  string `env:"LOG_FILE"`

	Auth       AuthConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Classifier ClassifierConfig
	Events     EventsConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,          default=24h"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`

	SeedAdmin     bool   `env:"SEED_ADMIN,     default=true"`
	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=Admin@123"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER,            default=postgres"`
	URL             string        `env:"DATABASE_URL,         default=host=localhost user=postgres dbname=safe_egypt_db sslmode=disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
}

// MongoConfig enables the review audit log when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=incident_reporting"`
}

// RedisConfig enables idempotency keys and login throttling when Addr is set.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type ClassifierConfig struct {
	URL     string        `env:"CLASSIFIER_URL"`
	APIKey  string        `env:"CLASSIFIER_API_KEY"`
	Model   string        `env:"CLASSIFIER_MODEL,   default=gpt-4o-mini"`
	Timeout time.Duration `env:"CLASSIFIER_TIMEOUT, default=20s"`
	Workers int           `env:"ENRICH_WORKERS,     default=4"`
}

type EventsConfig struct {
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Exchange    string `env:"EVENTS_EXCHANGE, default=incidents"`
}

var supportedDrivers = map[string]bool{"postgres": true, "mysql": true, "sqlite": true}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if !supportedDrivers[cfg.Database.Driver] {
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return &cfg, nil
}

// ValidateServe checks the settings only the HTTP server needs.
func (c *Config) ValidateServe() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.LoginMaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
