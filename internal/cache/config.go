package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const DefaultTTL = 30 * time.Second

type Config struct {
	// Addr is the Redis address. Empty disables caching.
	Addr     string
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

func (c Config) Enabled() bool {
	return c.Addr != ""
}

func LoadEnv() (*Config, error) {
	cfg := &Config{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		PoolSize: 10,
		TTL:      DefaultTTL,
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return nil, fmt.Errorf("invalid REDIS_DB %q: must be a non-negative number", v)
		}
		cfg.DB = db
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: must be positive", v)
		}
		cfg.TTL = ttl
	}

	return cfg, nil
}
