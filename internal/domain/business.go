package domain

import (
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/google/uuid"
)

const (
	FieldBusinessID      filter.Field = "id"
	FieldBusinessName    filter.Field = "name"
	FieldBusinessType    filter.Field = "business_type"
	FieldBusinessCountry filter.Field = "country"
	FieldBusinessCity    filter.Field = "city"
)

// Business is a read-only projection of a business that owns listings.
// Country and City come from the business address.
type Business struct {
	ID      uuid.UUID    `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Type    BusinessType `json:"businessType" yaml:"businessType"`
	Country string       `json:"country" yaml:"country"`
	City    string       `json:"city,omitempty" yaml:"city"`
}

// FieldValue implements filter.Record.
func (b Business) FieldValue(f filter.Field) any {
	switch f {
	case FieldBusinessID:
		return b.ID
	case FieldBusinessName:
		return b.Name
	case FieldBusinessType:
		return string(b.Type)
	case FieldBusinessCountry:
		return b.Country
	case FieldBusinessCity:
		return b.City
	default:
		return nil
	}
}

// BusinessIn matches businesses whose id is one of ids.
func BusinessIn(ids []uuid.UUID) filter.Predicate[Business] {
	return filter.OneOf[Business](FieldBusinessID, ids)
}
