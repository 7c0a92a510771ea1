package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/es"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/pg"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/sqlite"
	pkgserver "github.com/DjordjeVuckovic/market-hunter/pkg/server"
)

// Stores is an opened storage backend.
type Stores struct {
	Listings   storage.ListingStore
	Businesses storage.BusinessStore
	Storer     storage.Storer
	Health     pkgserver.HealthChecker

	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewStores opens the backend selected by cfg. Schemas and indices are created
// when missing; the in-memory backend is seeded from cfg.FixturesPath if set.
func NewStores(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		reader, err := pg.NewReader(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		storer, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Listings:   reader.Listings(),
			Businesses: reader.Businesses(),
			Storer:     storer,
			Health:     pg.NewHealthChecker(pool),
			close:      pool.Close,
		}, nil

	case storage.ES:
		store, err := es.NewStore(*cfg.Es)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndices(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure indices exist: %w", err)
		}
		return &Stores{
			Listings:   store.Listings(),
			Businesses: store.Businesses(),
			Storer:     store,
			Health:     es.NewHealthChecker(store),
		}, nil

	case storage.SQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Listings:   store.Listings(),
			Businesses: store.Businesses(),
			Storer:     store,
			Health:     store,
			close: func() {
				if err := store.Close(); err != nil {
					slog.Error("Failed to close sqlite store", "error", err)
				}
			},
		}, nil

	case storage.InMem:
		store := in_mem.NewInMemStorer()
		if cfg.FixturesPath != "" {
			fixtures, err := in_mem.LoadFixtures(cfg.FixturesPath)
			if err != nil {
				return nil, err
			}
			if err := fixtures.Seed(ctx, store); err != nil {
				return nil, err
			}
		}
		return &Stores{
			Listings:   store.Listings,
			Businesses: store.Businesses,
			Storer:     store,
			Health:     pkgserver.NewOkHealthChecker(),
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
