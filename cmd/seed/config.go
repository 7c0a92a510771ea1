package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/market-hunter/internal/cache"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/factory"
	"github.com/DjordjeVuckovic/market-hunter/pkg/config/env"
)

type cliConfig struct {
	FixturesPath string
	EnvPath      string
	SkipCache    bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.FixturesPath, "fixtures", "fixtures.yaml", "Path to the YAML fixture file")
	flag.StringVar(&cfg.EnvPath, "env", "cmd/market_api/.env", "Path to the .env file shared with the API")
	flag.BoolVar(&cfg.SkipCache, "skip-cache", false, "Do not invalidate the business lookup cache after seeding")

	flag.Parse()
	return cfg
}

type seedConfig struct {
	Storage *factory.StorageConfig
	Cache   *cache.Config
}

func loadConfig(cli cliConfig) (*seedConfig, error) {
	if err := env.LoadDotEnv(os.Getenv("ENV"), cli.EnvPath); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}
	cacheCfg, err := cache.LoadEnv()
	if err != nil {
		return nil, err
	}

	return &seedConfig{Storage: storageCfg, Cache: cacheCfg}, nil
}
