package es

import (
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

// listingDocument is the indexed form of a listing. JSON names match the
// listing filter fields.
type listingDocument struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	MoreInfo    string    `json:"more_info,omitempty"`
	Closes      time.Time `json:"closes"`
	Created     time.Time `json:"created"`
	Expires     time.Time `json:"expires"`
}

type businessDocument struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BusinessType string `json:"business_type"`
	Country      string `json:"country"`
	City         string `json:"city"`
}

var listingFields = fieldSet(
	domain.FieldListingID,
	domain.FieldListingBusinessID,
	domain.FieldListingProductName,
	domain.FieldListingPrice,
	domain.FieldListingCloses,
	domain.FieldListingCreated,
	domain.FieldListingExpires,
)

var businessFields = fieldSet(
	domain.FieldBusinessID,
	domain.FieldBusinessName,
	domain.FieldBusinessType,
	domain.FieldBusinessCountry,
	domain.FieldBusinessCity,
)

func toListingDocument(l domain.Listing) listingDocument {
	return listingDocument{
		ID:          l.ID.String(),
		BusinessID:  l.BusinessID.String(),
		ProductName: l.ProductName,
		Price:       l.Price,
		Quantity:    l.Quantity,
		MoreInfo:    l.MoreInfo,
		Closes:      l.Closes.UTC(),
		Created:     l.Created.UTC(),
		Expires:     l.Expires.UTC(),
	}
}

func (d listingDocument) toDomain() (domain.Listing, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Listing{}, err
	}
	businessID, err := uuid.Parse(d.BusinessID)
	if err != nil {
		return domain.Listing{}, err
	}
	return domain.Listing{
		ID:          id,
		BusinessID:  businessID,
		ProductName: d.ProductName,
		Price:       d.Price,
		Quantity:    d.Quantity,
		MoreInfo:    d.MoreInfo,
		Closes:      d.Closes,
		Created:     d.Created,
		Expires:     d.Expires,
	}, nil
}

func toBusinessDocument(b domain.Business) businessDocument {
	return businessDocument{
		ID:           b.ID.String(),
		Name:         b.Name,
		BusinessType: string(b.Type),
		Country:      b.Country,
		City:         b.City,
	}
}

func (d businessDocument) toDomain() (domain.Business, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Business{}, err
	}
	return domain.Business{
		ID:      id,
		Name:    d.Name,
		Type:    domain.BusinessType(d.BusinessType),
		Country: d.Country,
		City:    d.City,
	}, nil
}

func listingMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"business_id":  types.NewKeywordProperty(),
			"product_name": keywordWithText(),
			"price":        types.NewDoubleNumberProperty(),
			"quantity":     types.NewIntegerNumberProperty(),
			"more_info":    types.NewTextProperty(),
			"closes":       types.NewDateProperty(),
			"created":      types.NewDateProperty(),
			"expires":      types.NewDateProperty(),
		},
	}
}

func businessMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":            types.NewKeywordProperty(),
			"name":          keywordWithText(),
			"business_type": types.NewKeywordProperty(),
			"country":       types.NewKeywordProperty(),
			"city":          types.NewKeywordProperty(),
		},
	}
}

// keywordWithText maps a field as keyword for exact and wildcard filtering,
// with a text subfield for free-text queries.
func keywordWithText() types.Property {
	kw := types.NewKeywordProperty()
	kw.Fields = map[string]types.Property{
		"text": types.NewTextProperty(),
	}
	return kw
}
