package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all runtime configuration for the telemetry backend.
// Every field is read from the environment; defaults match a local
// ClickHouse install with no Redis or NATS.
type Config struct {
	AppEnv string `env:"APP_ENV" env-default:"development"`
	Port   string `env:"PORT" env-default:"8080"`

	Query   QueryConfig
	Polling PollingConfig
	Cache   CacheConfig
	NATS    NATSConfig
	HTTP    HTTPConfig
}

// QueryConfig describes how to reach the analytical query service.
type QueryConfig struct {
	// BaseURL is the ClickHouse HTTP interface address.
	BaseURL  string `env:"DB_QUERY_URL" env-default:"http://localhost:8123"`
	Database string `env:"DB_NAME" env-default:"airplane_watch"`

	// Protocol selects the gateway implementation: "http" or "native".
	Protocol   string        `env:"DB_PROTOCOL" env-default:"http"`
	NativeAddr string        `env:"DB_NATIVE_ADDR" env-default:"localhost:9000"`
	User       string        `env:"DB_USER" env-default:"default"`
	Password   string        `env:"DB_PASSWORD"`
	Timeout    time.Duration `env:"QUERY_TIMEOUT" env-default:"10s"`
}

// PollingConfig controls the feed pollers.
type PollingConfig struct {
	Interval        time.Duration `env:"POLL_INTERVAL" env-default:"30s"`
	StaleAfter      time.Duration `env:"STALE_AFTER" env-default:"5m"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" env-default:"1m"`
	HistoryRegion   string        `env:"HISTORY_REGION" env-default:"Global"`
	HistoryDays     int           `env:"HISTORY_DAYS" env-default:"7"`
}

// CacheConfig selects the response cache backend used by /history.
type CacheConfig struct {
	Backend       string        `env:"CACHE_BACKEND" env-default:"memory"`
	HistoryTTL    time.Duration `env:"HISTORY_CACHE_TTL" env-default:"30s"`
	RedisHost     string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     string        `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
}

// NATSConfig enables the snapshot bridge when URL is set.
type NATSConfig struct {
	URL           string `env:"NATS_URL"`
	SubjectPrefix string `env:"NATS_SUBJECT_PREFIX" env-default:"sleepwatch.feeds"`
}

// HTTPConfig holds per-client rate limits for the public API.
type HTTPConfig struct {
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) validate() error {
	c.Query.Protocol = strings.ToLower(strings.TrimSpace(c.Query.Protocol))
	switch c.Query.Protocol {
	case "http":
		u, err := url.Parse(c.Query.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("DB_QUERY_URL %q is not an absolute URL", c.Query.BaseURL)
		}
	case "native":
		if c.Query.NativeAddr == "" {
			return fmt.Errorf("DB_NATIVE_ADDR is required when DB_PROTOCOL=native")
		}
	default:
		return fmt.Errorf("unsupported DB_PROTOCOL %q (want http or native)", c.Query.Protocol)
	}

	if c.Polling.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.Polling.StaleAfter <= 0 {
		return fmt.Errorf("STALE_AFTER must be positive")
	}
	if c.Polling.MonitorInterval <= 0 {
		c.Polling.MonitorInterval = time.Minute
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("unsupported CACHE_BACKEND %q (want memory or redis)", c.Cache.Backend)
	}
	return nil
}

// RedisAddr returns host:port for the Redis cache backend.
func (c *CacheConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
