package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/market-hunter/internal/cache"
	"github.com/DjordjeVuckovic/market-hunter/internal/metrics"
	"github.com/DjordjeVuckovic/market-hunter/internal/router"
	"github.com/DjordjeVuckovic/market-hunter/internal/search"
	"github.com/DjordjeVuckovic/market-hunter/internal/server"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/market-hunter/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanups execute before exit.
func run() int {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		return 1
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	m := metrics.New()

	// filled in once the stores are open
	var health pkgserver.CompositeHealthChecker
	s := server.New(cfg.Server, &health)

	stores, err := factory.NewStores(s.Context(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to open storage", "type", cfg.StorageConfig.Type, "error", err)
		return 1
	}
	defer stores.Close()
	health = pkgserver.NewCompositeHealthChecker(stores.Health)

	var businesses storage.BusinessStore = stores.Businesses
	if cfg.Cache.Enabled() {
		kv, err := cache.NewRedisKV(s.Context(), *cfg.Cache)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			return 1
		}
		defer func() {
			if err := kv.Close(); err != nil {
				slog.Error("Failed to close redis client", "error", err)
			}
		}()
		businesses = cache.NewBusinessStore(stores.Businesses, kv, cfg.Cache.TTL, m)
		health = append(health, kv)
		slog.Info("Business lookup cache enabled", "addr", cfg.Cache.Addr, "ttl", cfg.Cache.TTL)
	}

	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics(m)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Market Hunter API is running")
	})

	svc := search.NewService(stores.Listings, businesses, m)
	router.NewSearchRouter(s.Echo, svc).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		return 1
	}
	return 0
}
