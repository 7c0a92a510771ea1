package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/DjordjeVuckovic/market-hunter/internal/cache"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/factory"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/in_mem"
)

func main() {
	cli := parseFlags()

	cfg, err := loadConfig(cli)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Storage.Type == storage.InMem {
		slog.Warn("in_mem storage does not persist, set IN_MEM_FIXTURES for the API instead")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cli, cfg)
	stop()
	if err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cli cliConfig, cfg *seedConfig) error {
	fixtures, err := in_mem.LoadFixtures(cli.FixturesPath)
	if err != nil {
		return err
	}

	stores, err := factory.NewStores(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := fixtures.Seed(ctx, stores.Storer); err != nil {
		return err
	}
	slog.Info("Seeded store",
		"type", cfg.Storage.Type,
		"businesses", len(fixtures.Businesses),
		"listings", len(fixtures.Listings),
	)

	if cli.SkipCache || !cfg.Cache.Enabled() {
		return nil
	}

	kv, err := cache.NewRedisKV(ctx, *cfg.Cache)
	if err != nil {
		return err
	}
	defer kv.Close()

	// cached business lookups may predate the new rows
	return cache.NewBusinessStore(stores.Businesses, kv, cfg.Cache.TTL, nil).Invalidate(ctx)
}
