package search

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/google/uuid"
)

var (
	wattiesCo = domain.Business{
		ID:      uuid.MustParse("00000000-0000-0000-0000-0000000000b1"),
		Name:    "Watties Foods",
		Type:    domain.RetailTrade,
		Country: "New Zealand",
		City:    "Hastings",
	}
	valueCo = domain.Business{
		ID:      uuid.MustParse("00000000-0000-0000-0000-0000000000b2"),
		Name:    "Value Mart",
		Type:    domain.AccommodationAndFood,
		Country: "Australia",
		City:    "Adelaide",
	}
	charityCo = domain.Business{
		ID:      uuid.MustParse("00000000-0000-0000-0000-0000000000b3"),
		Name:    "Food Bank",
		Type:    domain.CharitableOrg,
		Country: "New Zealand",
		City:    "Auckland",
	}

	testBusinesses = []domain.Business{wattiesCo, valueCo, charityCo}
)

func day(d int) time.Time {
	return time.Date(2026, time.May, d, 0, 0, 0, 0, time.UTC)
}

func listing(n int, name string, price float64, b domain.Business, closes time.Time) domain.Listing {
	return domain.Listing{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(name+string(rune('a'+n)))),
		BusinessID:  b.ID,
		ProductName: name,
		Price:       price,
		Quantity:    1,
		Closes:      closes,
		Created:     day(1),
		Expires:     closes.AddDate(0, 0, n),
	}
}

var testListings = []domain.Listing{
	listing(1, "Watties Beans", 5, wattiesCo, day(10)),
	listing(2, "Value Beans", 15, valueCo, day(12)),
	listing(3, "Watties Spaghetti", 3.5, wattiesCo, day(20)),
	listing(4, "Canned Soup", 2, charityCo, day(11)),
}

// countingBusinesses is an in-memory business store recording how often it is hit.
type countingBusinesses struct {
	data  []domain.Business
	calls atomic.Int32
	err   error
}

func (s *countingBusinesses) Find(_ context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return filter.Select(p, s.data), nil
}

func listingStore(data []domain.Listing) storage.ListingStore {
	return storage.ListingStoreFunc(func(_ context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error) {
		return filter.Select(p, data), nil
	})
}

var errStoreDown = errors.New("store down")

func names(ls []domain.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ProductName)
	}
	return out
}
