package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sareehouse/internal/catalog"
)

// Config holds the application settings, read from the environment.
type Config struct {
	AppPort         string
	DatabaseDriver  string // postgres, sqlite or memory
	DatabaseDSN     string
	CollectionStore string // sql, redis or memory
	RedisAddr       string
	RedisPassword   string
	RabbitMQURL     string // empty disables collection events
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	ResetTokenTTL   time.Duration
	SimilarLimit    int
	AuthRateLimit   float64 // requests per second per IP on /auth; 0 disables
	AuthRateBurst   int
	LogLevel        string
	SeedCatalog     bool
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:sareehouse.db?cache=shared")
	v.SetDefault("COLLECTION_STORE", "sql")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("SIMILAR_LIMIT", catalog.DefaultSimilarLimit)
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_BURST", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_CATALOG", true)
}

// Load reads settings from the environment on top of the defaults. A .env
// file in the working directory, if present, seeds variables that are not
// already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseDriver:  v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		CollectionStore: v.GetString("COLLECTION_STORE"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
		ResetTokenTTL:   v.GetDuration("RESET_TOKEN_TTL"),
		SimilarLimit:    v.GetInt("SIMILAR_LIMIT"),
		AuthRateLimit:   v.GetFloat64("AUTH_RATE_LIMIT"),
		AuthRateBurst:   v.GetInt("AUTH_RATE_BURST"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		SeedCatalog:     v.GetBool("SEED_CATALOG"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.CollectionStore {
	case "sql", "redis", "memory":
	default:
		return fmt.Errorf("unsupported COLLECTION_STORE %q", c.CollectionStore)
	}
	if c.CollectionStore == "sql" && c.DatabaseDriver == "memory" {
		return fmt.Errorf("COLLECTION_STORE=sql needs a SQL DATABASE_DRIVER")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 || c.ResetTokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL and RESET_TOKEN_TTL must be positive")
	}
	if c.SimilarLimit < 0 {
		return fmt.Errorf("SIMILAR_LIMIT must not be negative")
	}
	if c.AuthRateLimit < 0 || (c.AuthRateLimit > 0 && c.AuthRateBurst < 1) {
		return fmt.Errorf("AUTH_RATE_LIMIT must not be negative and AUTH_RATE_BURST must be at least 1")
	}
	return nil
}
