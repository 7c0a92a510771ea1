package dto

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/search"
	"github.com/DjordjeVuckovic/market-hunter/pkg/pagination"
	"github.com/DjordjeVuckovic/market-hunter/pkg/utils"
	"github.com/google/uuid"
)

// ListingSearchParams are the raw query parameters of a listing search.
// Values stay strings so that malformed input is reported as a validation error.
type ListingSearchParams struct {
	SearchQuery              string `query:"searchQuery"`
	MatchingProductName      string `query:"matchingProductName"`
	MatchingBusinessName     string `query:"matchingBusinessName"`
	MatchingBusinessLocation string `query:"matchingBusinessLocation"`
	MatchingBusinessType     string `query:"matchingBusinessType"`
	PriceRangeLower          string `query:"priceRangeLower"`
	PriceRangeUpper          string `query:"priceRangeUpper"`
	ClosingDateLower         string `query:"closingDateLower"`
	ClosingDateUpper         string `query:"closingDateUpper"`
	PageNumber               string `query:"pageNumber"`
	SortBy                   string `query:"sortBy"`
}

func (p ListingSearchParams) ToQuery() (search.Query, error) {
	var (
		q   search.Query
		err error
	)
	q.Query = p.SearchQuery

	flags := []struct {
		name string
		raw  string
		dst  *bool
	}{
		{"matchingProductName", p.MatchingProductName, &q.Fields.MatchingProductName},
		{"matchingBusinessName", p.MatchingBusinessName, &q.Fields.MatchingBusinessName},
		{"matchingBusinessLocation", p.MatchingBusinessLocation, &q.Fields.MatchingBusinessLocation},
		{"matchingBusinessType", p.MatchingBusinessType, &q.Fields.MatchingBusinessType},
	}
	for _, f := range flags {
		if *f.dst, err = parseBool(f.name, f.raw); err != nil {
			return q, err
		}
	}

	lowerPrice, err := parsePrice("priceRangeLower", p.PriceRangeLower)
	if err != nil {
		return q, err
	}
	upperPrice, err := parsePrice("priceRangeUpper", p.PriceRangeUpper)
	if err != nil {
		return q, err
	}
	q.Price = filter.NewRange(lowerPrice, upperPrice)

	lowerDate, err := parseDate("closingDateLower", p.ClosingDateLower)
	if err != nil {
		return q, err
	}
	upperDate, err := parseDate("closingDateUpper", p.ClosingDateUpper)
	if err != nil {
		return q, err
	}
	q.Closing = filter.NewRange(lowerDate, upperDate)

	page := 0
	if s := strings.TrimSpace(p.PageNumber); s != "" {
		if page, err = strconv.Atoi(s); err != nil || page < 0 {
			return q, apperr.NewValidation("pageNumber must be a non-negative integer")
		}
	}
	q.Page = pagination.NewOffsetRequest(page, pagination.PageDefaultSize)
	q.Sort = search.ParseSortKey(p.SortBy)

	return q, nil
}

func parseBool(name, raw string) (bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperr.NewValidationWrap("invalid "+name, err)
	}
	return v, nil
}

func parsePrice(name, raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid "+name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperr.NewValidation(name + " must be a finite number")
	}
	if v < 0 {
		return nil, apperr.NewValidation(name + " must not be negative")
	}
	return &v, nil
}

func parseDate(name, raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := search.ParseDate(s)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid "+name+", expected "+search.DateLayout, err)
	}
	return &v, nil
}

type BusinessResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BusinessType string    `json:"businessType"`
	Country      string    `json:"country"`
	City         string    `json:"city,omitempty"`
}

type ListingResponse struct {
	ID          uuid.UUID         `json:"id"`
	ProductName string            `json:"productName"`
	Price       float64           `json:"price"`
	Quantity    int               `json:"quantity"`
	MoreInfo    string            `json:"moreInfo,omitempty"`
	Closes      time.Time         `json:"closes"`
	Created     time.Time         `json:"created"`
	Expires     time.Time         `json:"expires"`
	BusinessID  uuid.UUID         `json:"businessId"`
	Business    *BusinessResponse `json:"business,omitempty"`
}

type ListingSearchResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	HasMore  bool              `json:"hasMore"`
}

func NewListingSearchResponse(res *pagination.OffsetResult[search.ListingView]) ListingSearchResponse {
	listings := make([]ListingResponse, 0, len(res.Items))
	for _, v := range res.Items {
		listings = append(listings, newListingResponse(v))
	}
	return ListingSearchResponse{
		Listings: listings,
		Total:    res.Total,
		Page:     res.Page,
		HasMore:  res.HasMore,
	}
}

func newListingResponse(v search.ListingView) ListingResponse {
	return ListingResponse{
		ID:          v.ID,
		ProductName: v.ProductName,
		Price:       utils.RoundDecimal(v.Price, 2),
		Quantity:    v.Quantity,
		MoreInfo:    v.MoreInfo,
		Closes:      v.Closes,
		Created:     v.Created,
		Expires:     v.Expires,
		BusinessID:  v.BusinessID,
		Business:    newBusinessResponse(v.Business),
	}
}

func newBusinessResponse(b *domain.Business) *BusinessResponse {
	if b == nil {
		return nil
	}
	return &BusinessResponse{
		ID:           b.ID,
		Name:         b.Name,
		BusinessType: b.Type.String(),
		Country:      b.Country,
		City:         b.City,
	}
}
