package storage

import (
	"context"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
)

// ListingStore finds sale listings matching a predicate.
// An empty result is an empty slice, never an error.
type ListingStore interface {
	Find(ctx context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error)
}

// BusinessStore finds businesses matching a predicate.
// An empty result is an empty slice, never an error.
type BusinessStore interface {
	Find(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error)
}

// ListingStoreFunc adapts a function to ListingStore.
type ListingStoreFunc func(ctx context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error)

func (f ListingStoreFunc) Find(ctx context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error) {
	return f(ctx, p)
}

// BusinessStoreFunc adapts a function to BusinessStore.
type BusinessStoreFunc func(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error)

func (f BusinessStoreFunc) Find(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error) {
	return f(ctx, p)
}
