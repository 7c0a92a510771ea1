package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/es"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/pg"
	"github.com/DjordjeVuckovic/market-hunter/pkg/utils"
)

type StorageConfig struct {
	storage.Type
	Pg           *pg.PoolConfig
	Es           *es.ClientConfig
	SQLitePath   string
	FixturesPath string
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !slices.Contains(storage.Types(), storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types())
	}

	cfg := &StorageConfig{
		Type:         storageType,
		FixturesPath: os.Getenv("IN_MEM_FIXTURES"),
	}

	switch storageType {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses:     utils.SplitTrim(os.Getenv("ES_ADDRESSES"), ","),
			ListingIndex:  envOr("ES_LISTING_INDEX", "listings"),
			BusinessIndex: envOr("ES_BUSINESS_INDEX", "businesses"),
			Username:      os.Getenv("ES_USERNAME"),
			Password:      os.Getenv("ES_PASSWORD"),
		}
		if len(cfg.Es.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses are missing")
		}

	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		if v := os.Getenv("PG_MAX_CONNS"); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid PG_MAX_CONNS %q: must be a positive number", v)
			}
			cfg.Pg.MaxConns = int32(n)
		}

	case storage.SQLite:
		cfg.SQLitePath = envOr("SQLITE_PATH", "market.db")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
