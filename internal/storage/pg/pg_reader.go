package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/sqlgen"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader finds listings and businesses by translating predicates to SQL.
type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{db: pool.conn}, nil
}

func (r *Reader) Listings() storage.ListingStore {
	return storage.ListingStoreFunc(r.FindListings)
}

func (r *Reader) Businesses() storage.BusinessStore {
	return storage.BusinessStoreFunc(r.FindBusinesses)
}

func (r *Reader) FindListings(ctx context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error) {
	if p.IsAlways(false) {
		return []domain.Listing{}, nil
	}

	b := sqlgen.New(sqlgen.Postgres)
	where, err := sqlgen.Where(p, listingColumns, b)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, business_id, product_name, price::float8, quantity, more_info, closes, created, expires
		FROM listings
		WHERE ` + where + `
		ORDER BY created, id`

	slog.Info("Executing pg listing query", "where", where, "args", b.Len())
	rows, err := r.db.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute listing query: %w", err)
	}

	listings, err := pgx.CollectRows(rows, scanListing)
	if err != nil {
		return nil, fmt.Errorf("failed to scan listings: %w", err)
	}
	return listings, nil
}

func (r *Reader) FindBusinesses(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error) {
	if p.IsAlways(false) {
		return []domain.Business{}, nil
	}

	b := sqlgen.New(sqlgen.Postgres)
	where, err := sqlgen.Where(p, businessColumns, b)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, business_type, country, city
		FROM businesses
		WHERE ` + where + `
		ORDER BY name, id`

	slog.Info("Executing pg business query", "where", where, "args", b.Len())
	rows, err := r.db.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute business query: %w", err)
	}

	businesses, err := pgx.CollectRows(rows, scanBusiness)
	if err != nil {
		return nil, fmt.Errorf("failed to scan businesses: %w", err)
	}
	return businesses, nil
}

func scanListing(row pgx.CollectableRow) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID,
		&l.BusinessID,
		&l.ProductName,
		&l.Price,
		&l.Quantity,
		&l.MoreInfo,
		&l.Closes,
		&l.Created,
		&l.Expires,
	)
	return l, err
}

func scanBusiness(row pgx.CollectableRow) (domain.Business, error) {
	var (
		b  domain.Business
		bt string
	)
	if err := row.Scan(&b.ID, &b.Name, &bt, &b.Country, &b.City); err != nil {
		return b, err
	}
	b.Type = domain.BusinessType(bt)
	return b, nil
}
