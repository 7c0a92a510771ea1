package domain

import (
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/google/uuid"
)

const (
	FieldListingID          filter.Field = "id"
	FieldListingBusinessID  filter.Field = "business_id"
	FieldListingProductName filter.Field = "product_name"
	FieldListingPrice       filter.Field = "price"
	FieldListingCloses      filter.Field = "closes"
	FieldListingCreated     filter.Field = "created"
	FieldListingExpires     filter.Field = "expires"
)

// Listing is a read-only projection of a sale listing: an inventory item a
// business offers at a price until it closes.
type Listing struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	BusinessID  uuid.UUID `json:"businessId" yaml:"businessId"`
	ProductName string    `json:"productName" yaml:"productName"`
	Price       float64   `json:"price" yaml:"price"`
	Quantity    int       `json:"quantity" yaml:"quantity"`
	MoreInfo    string    `json:"moreInfo,omitempty" yaml:"moreInfo"`
	Closes      time.Time `json:"closes" yaml:"closes"`
	Created     time.Time `json:"created" yaml:"created"`
	// Expires is the expiry of the underlying inventory item.
	Expires time.Time `json:"expires" yaml:"expires"`
}

// FieldValue implements filter.Record.
func (l Listing) FieldValue(f filter.Field) any {
	switch f {
	case FieldListingID:
		return l.ID
	case FieldListingBusinessID:
		return l.BusinessID
	case FieldListingProductName:
		return l.ProductName
	case FieldListingPrice:
		return l.Price
	case FieldListingCloses:
		return l.Closes
	case FieldListingCreated:
		return l.Created
	case FieldListingExpires:
		return l.Expires
	default:
		return nil
	}
}

// ListingBusinessIs matches listings offered by the business with the given id.
func ListingBusinessIs(id uuid.UUID) filter.Predicate[Listing] {
	return filter.Cond[Listing](FieldListingBusinessID, filter.Eq, id)
}

// ListingBusinessIn matches listings offered by any of the businesses in ids.
// No ids matches nothing.
func ListingBusinessIn(ids []uuid.UUID) filter.Predicate[Listing] {
	return filter.OneOf[Listing](FieldListingBusinessID, ids)
}
