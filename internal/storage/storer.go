package storage

import (
	"context"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
)

// Storer persists businesses and listings. Stores upsert by id.
type Storer interface {
	SaveBusinesses(ctx context.Context, businesses []domain.Business) error
	SaveListings(ctx context.Context, listings []domain.Listing) error
}

type Type string

const (
	ES     Type = "es"
	PG     Type = "pg"
	SQLite Type = "sqlite"
	InMem  Type = "in_mem"
)

// Types lists every supported storage type.
func Types() []Type {
	return []Type{ES, PG, SQLite, InMem}
}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
	ErrUnsupportedField  StorerError = "unsupported filter field: %s"
	ErrUnsupportedOp     StorerError = "unsupported filter operator: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
