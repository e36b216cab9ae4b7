// Package config reads server settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverLocal    = "local"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Config holds every setting of the server.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	Store StoreConfig

	JWTSecret     string
	TokenDuration time.Duration

	LLM   LLMConfig
	Redis RedisConfig
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver string

	// sqlite
	DBPath string
	// local
	LocalDataDir string
	// postgres
	DatabaseURL string
	// s3
	S3Bucket           string
	S3Region           string
	S3Endpoint         string
	S3PathStyle        bool
	S3Prefix           string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// LLMConfig configures the recipe suggestion model. Suggestions are disabled
// when APIKey is empty.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether suggestions can be served.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// RedisConfig configures the suggestion cache. The cache is off when Addr is
// empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{getenv: getenv}
	cfg := &Config{
		Port:      e.getInt("PORT", 8080),
		LogLevel:  e.getString("LOG_LEVEL", "info"),
		LogFormat: e.getString("LOG_FORMAT", "text"),
		Store: StoreConfig{
			Driver:             strings.ToLower(e.getString("STORE_DRIVER", DriverSQLite)),
			DBPath:             e.getString("DB_PATH", "./data/docelucro.db"),
			LocalDataDir:       e.getString("LOCAL_DATA_DIR", "./data/local"),
			DatabaseURL:        e.getString("DATABASE_URL", ""),
			S3Bucket:           e.getString("S3_BUCKET", ""),
			S3Region:           e.getString("S3_REGION", "us-east-1"),
			S3Endpoint:         e.getString("S3_ENDPOINT", ""),
			S3PathStyle:        e.getBool("S3_PATH_STYLE", false),
			S3Prefix:           e.getString("S3_PREFIX", ""),
			AWSAccessKeyID:     e.getString("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: e.getString("AWS_SECRET_ACCESS_KEY", ""),
		},
		JWTSecret:     e.getString("JWT_SECRET", ""),
		TokenDuration: e.getDuration("TOKEN_DURATION", 24*time.Hour),
		LLM: LLMConfig{
			BaseURL: e.getString("LLM_BASE_URL", ""),
			APIKey:  e.getString("LLM_API_KEY", ""),
			Model:   e.getString("LLM_MODEL", "gpt-4o-mini"),
			Timeout: e.getDuration("LLM_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     e.getString("REDIS_ADDR", ""),
			Password: e.getString("REDIS_PASSWORD", ""),
			DB:       e.getInt("REDIS_DB", 0),
			TTL:      e.getDuration("SUGGESTION_CACHE_TTL", 24*time.Hour),
		},
	}
	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required and driver-specific settings.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case DriverLocal:
		if c.Store.LocalDataDir == "" {
			errs = append(errs, errors.New("LOCAL_DATA_DIR is required for the local driver"))
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverS3:
		if c.Store.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	return errors.Join(errs...)
}

// env reads typed values and collects parse errors.
type env struct {
	getenv func(string) string
	errs   []error
}

func (e *env) getString(key, fallback string) string {
	if value := strings.TrimSpace(e.getenv(key)); value != "" {
		return value
	}
	return fallback
}

func (e *env) getInt(key string, fallback int) int {
	value := e.getString(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (e *env) getBool(key string, fallback bool) bool {
	value := e.getString(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func (e *env) getDuration(key string, fallback time.Duration) time.Duration {
	value := e.getString(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
