package search

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileAndSelect(t *testing.T, c *Compiler, req Request, data []domain.Listing) []string {
	t.Helper()
	p, err := c.Compile(context.Background(), req)
	require.NoError(t, err)
	return names(filter.Select(p, data))
}

func TestCompile_ProductNameMatching(t *testing.T) {
	beans := []domain.Listing{testListings[0], testListings[1]}
	c := NewCompiler(&countingBusinesses{data: testBusinesses})
	productName := Flags{MatchingProductName: true}

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"fuzzy substring", "beans", []string{"Watties Beans", "Value Beans"}},
		{"exact phrase", `"Watties Beans"`, []string{"Watties Beans"}},
		{"exact phrase is case insensitive", `"watties beans"`, []string{"Watties Beans"}},
		{"exact phrase needs whole value", `"Beans"`, []string{}},
		{"two fuzzy terms are anded", "Watties Beans", []string{"Watties Beans"}},
		{"explicit and", "watties and beans", []string{"Watties Beans"}},
		{"or", "watties or value", []string{"Watties Beans", "Value Beans"}},
		{"no match", "spaghetti", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compileAndSelect(t, c, Request{Query: tt.query, Fields: productName}, beans)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompile_BlankQueryIsUnconstrained(t *testing.T) {
	store := &countingBusinesses{data: testBusinesses}
	c := NewCompiler(store)

	for _, q := range []string{"", "   ", `""`} {
		p, err := c.Compile(context.Background(), Request{
			Query:  q,
			Fields: Flags{MatchingProductName: true, MatchingBusinessName: true, MatchingBusinessLocation: true},
		})
		require.NoError(t, err)
		assert.True(t, p.IsAlways(true))
	}
	assert.Zero(t, store.calls.Load())
}

func TestCompile_NoFieldsLeavesOnlyRanges(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})
	upper := 4.0

	got := compileAndSelect(t, c, Request{
		Query: "whatever",
		Price: filter.NewRange(nil, &upper),
	}, testListings)
	assert.Equal(t, []string{"Watties Spaghetti", "Canned Soup"}, got)
}

func TestCompile_RelatedFields(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})

	tests := []struct {
		name     string
		query    string
		fields   Flags
		expected []string
	}{
		{
			name:     "business name",
			query:    "watties",
			fields:   Flags{MatchingBusinessName: true},
			expected: []string{"Watties Beans", "Watties Spaghetti"},
		},
		{
			name:     "business country exact",
			query:    `"new zealand"`,
			fields:   Flags{MatchingBusinessLocation: true},
			expected: []string{"Watties Beans", "Watties Spaghetti", "Canned Soup"},
		},
		{
			name:     "business type",
			query:    "charitable",
			fields:   Flags{MatchingBusinessType: true},
			expected: []string{"Canned Soup"},
		},
		{
			name:     "unknown country matches nothing",
			query:    "Atlantis",
			fields:   Flags{MatchingBusinessLocation: true},
			expected: []string{},
		},
		{
			name:     "product name and country must both match",
			query:    "zealand or beans",
			fields:   Flags{MatchingProductName: true, MatchingBusinessLocation: true},
			expected: []string{"Watties Beans"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compileAndSelect(t, c, Request{Query: tt.query, Fields: tt.fields}, testListings)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompile_RelatedFieldIsOneSetCondition(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})

	p, err := c.Compile(context.Background(), Request{
		Query:  `"new zealand"`,
		Fields: Flags{MatchingBusinessLocation: true},
	})
	require.NoError(t, err)

	root := p.Root()
	require.Equal(t, filter.KindCond, root.Kind)
	assert.Equal(t, domain.FieldListingBusinessID, root.Cond.Field)
	assert.Equal(t, filter.In, root.Cond.Op)
	assert.Len(t, root.Cond.Value, 2)
}

func TestCompile_ZeroBusinessesIsAlwaysFalse(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})

	p, err := c.Compile(context.Background(), Request{
		Query:  "Atlantis",
		Fields: Flags{MatchingBusinessLocation: true},
	})
	require.NoError(t, err)
	assert.True(t, p.IsAlways(false))
}

func TestCompile_OneLookupPerRelatedField(t *testing.T) {
	store := &countingBusinesses{data: testBusinesses}
	c := NewCompiler(store)

	_, err := c.Compile(context.Background(), Request{
		Query:  "food or mart",
		Fields: Flags{MatchingProductName: true, MatchingBusinessName: true, MatchingBusinessLocation: true, MatchingBusinessType: true},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, store.calls.Load())
}

func TestCompile_StoreErrorIsWrapped(t *testing.T) {
	c := NewCompiler(&countingBusinesses{err: errStoreDown})

	_, err := c.Compile(context.Background(), Request{
		Query:  "watties",
		Fields: Flags{MatchingProductName: true, MatchingBusinessName: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Contains(t, err.Error(), "business_name")
}

func TestCompile_Ranges(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})
	five, fifteen, ten := 5.0, 15.0, 10.0
	priced := []domain.Listing{testListings[0], testListings[1]}

	t.Run("upper only", func(t *testing.T) {
		got := compileAndSelect(t, c, Request{Price: filter.NewRange(nil, &ten)}, priced)
		assert.Equal(t, []string{"Watties Beans"}, got)
	})

	t.Run("unbounded", func(t *testing.T) {
		got := compileAndSelect(t, c, Request{}, priced)
		assert.Equal(t, []string{"Watties Beans", "Value Beans"}, got)
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		got := compileAndSelect(t, c, Request{Price: filter.NewRange(&five, &fifteen)}, priced)
		assert.Len(t, got, 2)
	})

	t.Run("inverted", func(t *testing.T) {
		got := compileAndSelect(t, c, Request{Price: filter.NewRange(&fifteen, &five)}, priced)
		assert.Empty(t, got)
	})

	t.Run("closing date", func(t *testing.T) {
		lower, err := ParseDate("2026-05-11")
		require.NoError(t, err)
		upper, err := ParseDate("2026-05-12")
		require.NoError(t, err)

		got := compileAndSelect(t, c, Request{Closing: filter.NewRange(&lower, &upper)}, testListings)
		assert.Equal(t, []string{"Value Beans", "Canned Soup"}, got)
	})
}

func TestCompile_Idempotent(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})
	upper := 10.0
	req := Request{
		Query:  `watties or "canned soup"`,
		Fields: Flags{MatchingProductName: true, MatchingBusinessLocation: true},
		Price:  filter.NewRange(nil, &upper),
	}

	first, err := c.Compile(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Compile(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, filter.Select(first, testListings), filter.Select(second, testListings))
}

func TestCompile_NeverPanics(t *testing.T) {
	c := NewCompiler(&countingBusinesses{data: testBusinesses})
	all := Flags{MatchingProductName: true, MatchingBusinessName: true, MatchingBusinessLocation: true, MatchingBusinessType: true}

	for _, q := range []string{`"`, `""""`, `" or "`, "and and and", " or or ", "\x00\xff", `a "b or c`, "OR", "\n"} {
		assert.NotPanics(t, func() {
			_, err := c.Compile(context.Background(), Request{Query: q, Fields: all})
			assert.NoError(t, err)
		}, q)
	}
}

func TestCompile_CanceledContextReachesStore(t *testing.T) {
	var seen error
	store := storageFunc(func(ctx context.Context) error {
		seen = ctx.Err()
		return ctx.Err()
	})
	c := NewCompiler(store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := c.Compile(ctx, Request{Query: "x", Fields: Flags{MatchingBusinessName: true}})
	assert.Error(t, err)
	assert.ErrorIs(t, seen, context.DeadlineExceeded)
}

type storageFunc func(ctx context.Context) error

func (f storageFunc) Find(ctx context.Context, _ filter.Predicate[domain.Business]) ([]domain.Business, error) {
	return nil, f(ctx)
}

func TestTermPredicate(t *testing.T) {
	fuzzy := TermPredicate[domain.Listing](domain.FieldListingProductName, token.Term{Text: "bean"})
	exact := TermPredicate[domain.Listing](domain.FieldListingProductName, token.Term{Text: "bean", Exact: true})

	assert.Equal(t, `or(product_name =~ "bean", product_name ~ "bean")`, fuzzy.String())
	assert.Equal(t, `product_name =~ "bean"`, exact.String())
}

func TestFlags_Selectors(t *testing.T) {
	assert.Empty(t, Flags{}.Selectors())
	assert.Equal(t,
		[]FieldSelector{ProductName, BusinessCountry},
		Flags{MatchingProductName: true, MatchingBusinessLocation: true}.Selectors())
}
