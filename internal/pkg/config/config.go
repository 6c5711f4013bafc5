package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DevSecretKey signs tokens in development when SECRET_KEY is unset.
const DevSecretKey = "dev-secret-key"

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	SecretKey string `env:"SECRET_KEY"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://localhost:27017/"`
	Database string `env:"MONGODB_DB,  default=agripal"`
}

// RedisConfig configures the marketplace cache. A zero CacheTTL disables the
// cache and no Redis connection is made.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,            default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,              default=0"`
	CacheTTL time.Duration `env:"MARKETPLACE_CACHE_TTL, default=30s"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether marketplace results are cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.Redis.CacheTTL > 0
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if cfg.SecretKey == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("config: SECRET_KEY is required outside development")
		}
		cfg.SecretKey = DevSecretKey
	}
	if cfg.Redis.CacheTTL < 0 {
		return nil, fmt.Errorf("config: MARKETPLACE_CACHE_TTL must not be negative, got %s", cfg.Redis.CacheTTL)
	}
	return &cfg, nil
}
