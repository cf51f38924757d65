package config

import (
	"fmt"
	"time"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds runtime settings for the wallet CLI.
//
// Durations are time.Duration values; the file loader accepts "3s" strings
// or integer nanoseconds for them.
type Config struct {
	GatewayURL  string `env:"UPI_GATEWAY_URL"`
	DatabaseDSN string `env:"UPI_DATABASE_DSN"`

	StorageBackend string `env:"UPI_STORAGE_BACKEND"`
	RedisAddr      string `env:"UPI_REDIS_ADDR"`
	RedisPrefix    string `env:"UPI_REDIS_PREFIX"`

	RequestTimeout    time.Duration `env:"UPI_REQUEST_TIMEOUT"`
	ReadRetries       int           `env:"UPI_READ_RETRIES"`
	RetryDelay        time.Duration `env:"UPI_RETRY_DELAY"`
	RequestsPerSecond float64       `env:"UPI_REQUESTS_PER_SECOND"`
	RequestBurst      int           `env:"UPI_REQUEST_BURST"`

	OnlineCheckInterval time.Duration `env:"UPI_ONLINE_CHECK_INTERVAL"`

	LogLevel   string `env:"UPI_LOG_LEVEL"`
	LogBackend string `env:"UPI_LOG_BACKEND"`
	LogFormat  string `env:"UPI_LOG_FORMAT"`

	OrderedRefresh      bool `env:"UPI_ORDERED_REFRESH"`
	DeferPaymentRefresh bool `env:"UPI_DEFER_PAYMENT_REFRESH"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayURL = "http://localhost:8080"
	c.DatabaseDSN = "upiwallet.db"
	c.StorageBackend = StorageSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "upiwallet:"
	c.RequestTimeout = 10 * time.Second
	c.ReadRetries = 2
	c.RetryDelay = 300 * time.Millisecond
	c.RequestsPerSecond = 0
	c.RequestBurst = 1
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.OrderedRefresh = true
	c.DeferPaymentRefresh = false
}

// Validate reports settings no component can run with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("database dsn is required for %s storage", StorageSQLite)
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required for %s storage", StorageRedis)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.GatewayURL == "" {
		return fmt.Errorf("gateway url is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ReadRetries < 0 {
		return fmt.Errorf("read retries must not be negative, got %d", c.ReadRetries)
	}
	if c.ReadRetries > 0 && c.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive when retries are enabled")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays the config
// file, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
