// Package sqlite is an embedded listing store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/sqlgen"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const ddl = `
CREATE TABLE IF NOT EXISTS businesses (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    business_type TEXT NOT NULL,
    country       TEXT NOT NULL,
    city          TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS listings (
    id           TEXT PRIMARY KEY,
    business_id  TEXT NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
    product_name TEXT NOT NULL,
    price        REAL NOT NULL,
    quantity     INTEGER NOT NULL,
    more_info    TEXT NOT NULL DEFAULT '',
    closes       INTEGER NOT NULL,
    created      INTEGER NOT NULL,
    expires      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS listings_business_id_idx ON listings (business_id);
`

var listingColumns = sqlgen.Columns{
	domain.FieldListingID:          "id",
	domain.FieldListingBusinessID:  "business_id",
	domain.FieldListingProductName: "product_name",
	domain.FieldListingPrice:       "price",
	domain.FieldListingCloses:      "closes",
	domain.FieldListingCreated:     "created",
	domain.FieldListingExpires:     "expires",
}

var businessColumns = sqlgen.Columns{
	domain.FieldBusinessID:      "id",
	domain.FieldBusinessName:    "name",
	domain.FieldBusinessType:    "business_type",
	domain.FieldBusinessCountry: "country",
	domain.FieldBusinessCity:    "city",
}

type Store struct {
	db *sql.DB
}

// Open connects to the database at path (":memory:" for a private in-memory
// database) and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// a :memory: database lives and dies with its connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}

	slog.Info("Opened sqlite store", "path", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

func (s *Store) Listings() storage.ListingStore {
	return storage.ListingStoreFunc(s.FindListings)
}

func (s *Store) Businesses() storage.BusinessStore {
	return storage.BusinessStoreFunc(s.FindBusinesses)
}

func (s *Store) SaveBusinesses(ctx context.Context, businesses []domain.Business) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO businesses (id, name, business_type, country, city)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				business_type = excluded.business_type,
				country = excluded.country,
				city = excluded.city`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, b := range businesses {
			if b.ID == uuid.Nil {
				b.ID = uuid.New()
			}
			if _, err := stmt.ExecContext(ctx, b.ID.String(), b.Name, string(b.Type), b.Country, b.City); err != nil {
				return fmt.Errorf("failed to upsert business %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) SaveListings(ctx context.Context, listings []domain.Listing) error {
	now := time.Now().UTC()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO listings (id, business_id, product_name, price, quantity, more_info, closes, created, expires)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				business_id = excluded.business_id,
				product_name = excluded.product_name,
				price = excluded.price,
				quantity = excluded.quantity,
				more_info = excluded.more_info,
				closes = excluded.closes,
				expires = excluded.expires`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, l := range listings {
			if l.ID == uuid.Nil {
				l.ID = uuid.New()
			}
			if l.Created.IsZero() {
				l.Created = now
			}
			if _, err := stmt.ExecContext(ctx,
				l.ID.String(),
				l.BusinessID.String(),
				l.ProductName,
				l.Price,
				l.Quantity,
				l.MoreInfo,
				l.Closes.UnixMilli(),
				l.Created.UnixMilli(),
				l.Expires.UnixMilli(),
			); err != nil {
				return fmt.Errorf("failed to upsert listing %s: %w", l.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) FindListings(ctx context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0)
	if p.IsAlways(false) {
		return out, nil
	}

	b := sqlgen.New(sqlgen.SQLite)
	where, err := sqlgen.Where(p, listingColumns, b)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, product_name, price, quantity, more_info, closes, created, expires
		FROM listings
		WHERE `+where+`
		ORDER BY created, id`, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute listing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l                        domain.Listing
			id, businessID           string
			closes, created, expires int64
		)
		if err := rows.Scan(&id, &businessID, &l.ProductName, &l.Price, &l.Quantity, &l.MoreInfo, &closes, &created, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", id, err)
		}
		if l.BusinessID, err = uuid.Parse(businessID); err != nil {
			return nil, fmt.Errorf("invalid business id %q: %w", businessID, err)
		}
		l.Closes = time.UnixMilli(closes).UTC()
		l.Created = time.UnixMilli(created).UTC()
		l.Expires = time.UnixMilli(expires).UTC()
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return out, nil
}

func (s *Store) FindBusinesses(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error) {
	out := make([]domain.Business, 0)
	if p.IsAlways(false) {
		return out, nil
	}

	b := sqlgen.New(sqlgen.SQLite)
	where, err := sqlgen.Where(p, businessColumns, b)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, business_type, country, city
		FROM businesses
		WHERE `+where+`
		ORDER BY name, id`, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute business query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bus    domain.Business
			id, bt string
		)
		if err := rows.Scan(&id, &bus.Name, &bt, &bus.Country, &bus.City); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		if bus.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid business id %q: %w", id, err)
		}
		bus.Type = domain.BusinessType(bt)
		out = append(out, bus)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}
	return out, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
