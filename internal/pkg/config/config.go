package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
	DriverMongo = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=3000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	JWTSecret       string        `env:"JWT_SECRET"`
	SentryDSN       string        `env:"SENTRY_DSN"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type StoreConfig struct {
	Driver  string `env:"STORE_DRIVER, default=file"`
	DataDir string `env:"DATA_DIR,     default=./data"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=visits_manager"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=visits-manager"`
}

// IsDevelopment reports whether the service runs with developer defaults
// (pretty logs).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverFile, DriverRedis, DriverMongo:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	return &cfg, nil
}
