package search

import (
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
)

// DateLayout is the calendar-date format accepted for closing-date bounds.
const DateLayout = "2006-01-02"

// PriceRange matches listings priced within r, bounds inclusive.
func PriceRange(r filter.Range[float64]) filter.Predicate[domain.Listing] {
	return filter.Between[domain.Listing](domain.FieldListingPrice, r)
}

// ClosingRange matches listings closing within r, bounds inclusive.
func ClosingRange(r filter.Range[time.Time]) filter.Predicate[domain.Listing] {
	return filter.Between[domain.Listing](domain.FieldListingCloses, r)
}

// ParseDate parses a closing-date bound given as a calendar date. The result
// is midnight UTC at the start of that day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
