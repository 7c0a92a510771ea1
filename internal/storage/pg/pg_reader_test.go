package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	pkgtesting "github.com/DjordjeVuckovic/market-hunter/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nzFoods = domain.Business{
		ID:      uuid.MustParse("5f1f6f7e-0000-4000-8000-000000000001"),
		Name:    "Watties Foods",
		Type:    domain.RetailTrade,
		Country: "New Zealand",
		City:    "Hastings",
	}
	auMart = domain.Business{
		ID:      uuid.MustParse("5f1f6f7e-0000-4000-8000-000000000002"),
		Name:    "Value Mart",
		Type:    domain.AccommodationAndFood,
		Country: "Australia",
		City:    "Adelaide",
	}
)

func newTestReader(t *testing.T) (*Reader, *Storer) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	require.True(t, NewHealthChecker(pool).Healthy(ctx))

	reader, err := NewReader(pool)
	require.NoError(t, err)
	storer, err := NewStorer(pool)
	require.NoError(t, err)

	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storer.SaveBusinesses(ctx, []domain.Business{nzFoods, auMart}))
	require.NoError(t, storer.SaveListings(ctx, []domain.Listing{
		{
			ID: uuid.New(), BusinessID: nzFoods.ID, ProductName: "Watties Beans", Price: 5, Quantity: 2,
			Closes: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), Created: created, Expires: created.AddDate(0, 2, 0),
		},
		{
			ID: uuid.New(), BusinessID: auMart.ID, ProductName: "Value Beans", Price: 15, Quantity: 1,
			Closes: time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), Created: created.Add(time.Hour), Expires: created.AddDate(0, 2, 0),
		},
	}))

	return reader, storer
}

func TestReader_FindListings(t *testing.T) {
	reader, _ := newTestReader(t)
	ctx := context.Background()
	upper := 10.0

	tests := []struct {
		name     string
		p        filter.Predicate[domain.Listing]
		expected []string
	}{
		{"all", filter.Always[domain.Listing](true), []string{"Watties Beans", "Value Beans"}},
		{"none", filter.Always[domain.Listing](false), []string{}},
		{"contains fold", filter.Cond[domain.Listing](domain.FieldListingProductName, filter.ContainsFold, "BEANS"), []string{"Watties Beans", "Value Beans"}},
		{"equal fold", filter.Cond[domain.Listing](domain.FieldListingProductName, filter.EqualFold, "watties beans"), []string{"Watties Beans"}},
		{"price upper", filter.Between[domain.Listing](domain.FieldListingPrice, filter.NewRange(nil, &upper)), []string{"Watties Beans"}},
		{"by business", domain.ListingBusinessIs(auMart.ID), []string{"Value Beans"}},
		{"by business set", domain.ListingBusinessIn([]uuid.UUID{auMart.ID, nzFoods.ID, uuid.New()}), []string{"Watties Beans", "Value Beans"}},
		{
			"closing lower bound inclusive",
			filter.Cond[domain.Listing](domain.FieldListingCloses, filter.Gte, time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)),
			[]string{"Value Beans"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.FindListings(ctx, tt.p)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, l := range got {
				names = append(names, l.ProductName)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestReader_FindBusinesses(t *testing.T) {
	reader, storer := newTestReader(t)
	ctx := context.Background()

	got, err := reader.Businesses().Find(ctx, filter.Cond[domain.Business](domain.FieldBusinessType, filter.ContainsFold, "retail"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, nzFoods, got[0])

	renamed := nzFoods
	renamed.Name = "Watties"
	require.NoError(t, storer.SaveBusinesses(ctx, []domain.Business{renamed}))

	got, err = reader.FindBusinesses(ctx, domain.BusinessIn([]uuid.UUID{nzFoods.ID}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Watties", got[0].Name)
}
