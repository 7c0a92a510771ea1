package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn}, nil
}

const upsertBusinessSQL = `
	INSERT INTO businesses (id, name, business_type, country, city)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		business_type = EXCLUDED.business_type,
		country = EXCLUDED.country,
		city = EXCLUDED.city
`

const upsertListingSQL = `
	INSERT INTO listings (id, business_id, product_name, price, quantity, more_info, closes, created, expires)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		business_id = EXCLUDED.business_id,
		product_name = EXCLUDED.product_name,
		price = EXCLUDED.price,
		quantity = EXCLUDED.quantity,
		more_info = EXCLUDED.more_info,
		closes = EXCLUDED.closes,
		expires = EXCLUDED.expires
`

func (s *Storer) SaveBusinesses(ctx context.Context, businesses []domain.Business) error {
	batch := &pgx.Batch{}
	for _, b := range businesses {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		batch.Queue(upsertBusinessSQL, b.ID, b.Name, string(b.Type), b.Country, b.City)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert businesses: %w", err)
	}
	slog.Info("Saved businesses to postgres", "count", len(businesses))
	return nil
}

func (s *Storer) SaveListings(ctx context.Context, listings []domain.Listing) error {
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, l := range listings {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		if l.Created.IsZero() {
			l.Created = now
		}
		batch.Queue(upsertListingSQL,
			l.ID,
			l.BusinessID,
			l.ProductName,
			l.Price,
			l.Quantity,
			l.MoreInfo,
			l.Closes,
			l.Created,
			l.Expires,
		)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert listings: %w", err)
	}
	slog.Info("Saved listings to postgres", "count", len(listings))
	return nil
}
