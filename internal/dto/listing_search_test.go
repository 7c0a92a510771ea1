package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/search"
	"github.com/DjordjeVuckovic/market-hunter/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingSearchParams_ToQuery(t *testing.T) {
	q, err := ListingSearchParams{
		SearchQuery:              `"red bike" or scooter`,
		MatchingProductName:      "true",
		MatchingBusinessLocation: "TRUE",
		PriceRangeUpper:          "10.50",
		ClosingDateLower:         "2026-05-01",
		ClosingDateUpper:         "2026-05-31",
		PageNumber:               "2",
		SortBy:                   "priceDesc",
	}.ToQuery()
	require.NoError(t, err)

	assert.Equal(t, `"red bike" or scooter`, q.Query)
	assert.Equal(t, search.Flags{MatchingProductName: true, MatchingBusinessLocation: true}, q.Fields)
	assert.Nil(t, q.Price.Lower)
	require.NotNil(t, q.Price.Upper)
	assert.Equal(t, 10.5, *q.Price.Upper)
	require.NotNil(t, q.Closing.Upper)
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), *q.Closing.Upper)
	assert.Equal(t, 2, q.Page.Page)
	assert.Equal(t, pagination.PageDefaultSize, q.Page.Size)
	assert.Equal(t, search.SortPriceDesc, q.Sort)
}

func TestListingSearchParams_Defaults(t *testing.T) {
	q, err := ListingSearchParams{}.ToQuery()
	require.NoError(t, err)

	assert.Equal(t, search.Flags{}, q.Fields)
	assert.True(t, q.Price.IsUnbounded())
	assert.True(t, q.Closing.IsUnbounded())
	assert.Equal(t, 0, q.Page.Page)
	assert.Equal(t, search.SortNone, q.Sort)
}

func TestListingSearchParams_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		params ListingSearchParams
	}{
		{"price not a number", ListingSearchParams{PriceRangeLower: "cheap"}},
		{"negative price", ListingSearchParams{PriceRangeUpper: "-1"}},
		{"nan price", ListingSearchParams{PriceRangeUpper: "NaN"}},
		{"infinite price", ListingSearchParams{PriceRangeUpper: "Inf"}},
		{"positive infinite price", ListingSearchParams{PriceRangeLower: "+Inf"}},
		{"negative infinite price", ListingSearchParams{PriceRangeLower: "-inf"}},
		{"bad date", ListingSearchParams{ClosingDateLower: "01/05/2026"}},
		{"bad flag", ListingSearchParams{MatchingBusinessType: "yes please"}},
		{"bad page", ListingSearchParams{PageNumber: "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.ToQuery()
			var ve *apperr.ValidationError
			assert.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
		})
	}
}

func TestNewListingSearchResponse(t *testing.T) {
	shop := &domain.Business{ID: uuid.New(), Name: "Watties Foods", Type: domain.RetailTrade, Country: "New Zealand"}
	res := pagination.Paginate([]search.ListingView{
		{Listing: domain.Listing{ID: uuid.New(), ProductName: "Beans", Price: 4.999, BusinessID: shop.ID}, Business: shop},
		{Listing: domain.Listing{ID: uuid.New(), ProductName: "Orphan", Price: 1}},
	}, pagination.NewOffsetRequest(0, 10))

	out := NewListingSearchResponse(res)
	require.Len(t, out.Listings, 2)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 5.0, out.Listings[0].Price)
	require.NotNil(t, out.Listings[0].Business)
	assert.Equal(t, "Retail Trade", out.Listings[0].Business.BusinessType)
	assert.Nil(t, out.Listings[1].Business)
}
