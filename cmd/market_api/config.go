package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/market-hunter/internal/cache"
	"github.com/DjordjeVuckovic/market-hunter/internal/server"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/factory"
	"github.com/DjordjeVuckovic/market-hunter/pkg/config/env"
)

const defaultEnvPath = "cmd/market_api/.env"

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type MarketApiConfig struct {
	LogLevel      slog.Level
	Server        *server.Config
	StorageConfig *factory.StorageConfig
	Cache         *cache.Config
}

func (as *AppConfig) Load() (*MarketApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, defaultEnvPath)
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	var level slog.Level
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	serverCfg, err := server.LoadConfig()
	if err != nil {
		return nil, err
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cacheCfg, err := cache.LoadEnv()
	if err != nil {
		return nil, err
	}

	return &MarketApiConfig{
		LogLevel:      level,
		Server:        serverCfg,
		StorageConfig: storageCfg,
		Cache:         cacheCfg,
	}, nil
}
