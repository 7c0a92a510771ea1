package search

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey orders search results. The zero value keeps store order.
type SortKey string

const (
	SortNone          SortKey = ""
	SortPriceAsc      SortKey = "priceAsc"
	SortPriceDesc     SortKey = "priceDesc"
	SortProductName   SortKey = "productName"
	SortCountry       SortKey = "country"
	SortCity          SortKey = "city"
	SortExpiryDateAsc SortKey = "expiryDateAsc"
	SortExpiryDesc    SortKey = "expiryDateDesc"
	SortSeller        SortKey = "seller"
)

// ParseSortKey maps a sortBy parameter to a key. Unknown values fall back to
// SortNone rather than failing the request.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortProductName, SortCountry, SortCity,
		SortExpiryDateAsc, SortExpiryDesc, SortSeller:
		return k
	}
	return SortNone
}

func (k SortKey) compare() func(a, b ListingView) int {
	switch k {
	case SortPriceAsc:
		return func(a, b ListingView) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b ListingView) int { return cmp.Compare(b.Price, a.Price) }
	case SortProductName:
		return func(a, b ListingView) int { return compareFold(a.ProductName, b.ProductName) }
	case SortCountry:
		return func(a, b ListingView) int { return compareFold(a.businessCountry(), b.businessCountry()) }
	case SortCity:
		return func(a, b ListingView) int { return compareFold(a.businessCity(), b.businessCity()) }
	case SortExpiryDateAsc:
		return func(a, b ListingView) int { return a.Expires.Compare(b.Expires) }
	case SortExpiryDesc:
		return func(a, b ListingView) int { return b.Expires.Compare(a.Expires) }
	case SortSeller:
		return func(a, b ListingView) int { return compareFold(a.businessName(), b.businessName()) }
	}
	return nil
}

// Sort orders views in place. Ties keep their relative order.
func (k SortKey) Sort(views []ListingView) {
	if c := k.compare(); c != nil {
		slices.SortStableFunc(views, c)
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
