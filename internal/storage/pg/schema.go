package pg

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage/sqlgen"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS businesses (
    id            uuid PRIMARY KEY,
    name          text NOT NULL,
    business_type text NOT NULL,
    country       text NOT NULL,
    city          text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS listings (
    id           uuid PRIMARY KEY,
    business_id  uuid NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
    product_name text NOT NULL,
    price        numeric(12, 2) NOT NULL CHECK (price >= 0),
    quantity     integer NOT NULL CHECK (quantity > 0),
    more_info    text NOT NULL DEFAULT '',
    closes       timestamptz NOT NULL,
    created      timestamptz NOT NULL DEFAULT now(),
    expires      timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS listings_business_id_idx ON listings (business_id);
CREATE INDEX IF NOT EXISTS listings_closes_idx ON listings (closes);
CREATE INDEX IF NOT EXISTS businesses_country_idx ON businesses (lower(country));
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

// EnsureSchema creates the marketplace tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.GetConn().Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
