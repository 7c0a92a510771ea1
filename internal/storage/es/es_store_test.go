package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
	"took": 1,
	"timed_out": false,
	"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
	"hits": {
		"total": {"value": 1, "relation": "eq"},
		"max_score": null,
		"hits": [{
			"_index": "listings",
			"_id": "5f1f6f7e-0000-4000-8000-0000000000a1",
			"_score": null,
			"_source": {
				"id": "5f1f6f7e-0000-4000-8000-0000000000a1",
				"business_id": "5f1f6f7e-0000-4000-8000-000000000001",
				"product_name": "Watties Beans",
				"price": 5,
				"quantity": 2,
				"closes": "2026-05-10T00:00:00Z",
				"created": "2026-05-01T00:00:00Z",
				"expires": "2026-06-01T00:00:00Z"
			}
		}]
	}
}`

// fakeES answers every request with body and records the last search body.
func fakeES(t *testing.T, body string) (*Store, *string) {
	t.Helper()
	var lastSearch string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_search") {
			b, _ := io.ReadAll(r.Body)
			lastSearch = string(b)
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	s, err := NewStore(ClientConfig{
		Addresses:     []string{srv.URL},
		ListingIndex:  "listings",
		BusinessIndex: "businesses",
	})
	require.NoError(t, err)
	return s, &lastSearch
}

func TestStore_FindListings(t *testing.T) {
	s, lastSearch := fakeES(t, searchResponse)

	got, err := s.Listings().Find(context.Background(),
		filter.Cond[domain.Listing](domain.FieldListingProductName, filter.ContainsFold, "beans"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Watties Beans", got[0].ProductName)
	assert.Equal(t, 5.0, got[0].Price)
	assert.Equal(t, "5f1f6f7e-0000-4000-8000-000000000001", got[0].BusinessID.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(*lastSearch), &body))
	assert.EqualValues(t, PageSize, body["size"])
	assert.Equal(t, true, body["track_total_hits"])
	assert.NotContains(t, body, "search_after")
	assert.Contains(t, *lastSearch, `"wildcard"`)
}

func listingHit(id, name string, created string) string {
	return `{
		"_index": "listings",
		"_id": "` + id + `",
		"_score": null,
		"sort": ["` + created + `", "` + id + `"],
		"_source": {
			"id": "` + id + `",
			"business_id": "5f1f6f7e-0000-4000-8000-000000000001",
			"product_name": "` + name + `",
			"price": 5,
			"quantity": 1,
			"closes": "2026-05-10T00:00:00Z",
			"created": "` + created + `",
			"expires": "2026-06-01T00:00:00Z"
		}
	}`
}

func hitsResponse(total int, relation string, hits ...string) string {
	return `{
		"took": 1,
		"timed_out": false,
		"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
		"hits": {
			"total": {"value": ` + strconv.Itoa(total) + `, "relation": "` + relation + `"},
			"max_score": null,
			"hits": [` + strings.Join(hits, ",") + `]
		}
	}`
}

func TestStore_FindListingsPagesWithSearchAfter(t *testing.T) {
	first := hitsResponse(3, "eq",
		listingHit("5f1f6f7e-0000-4000-8000-0000000000a1", "Beans 1", "2026-05-01T00:00:00Z"),
		listingHit("5f1f6f7e-0000-4000-8000-0000000000a2", "Beans 2", "2026-05-02T00:00:00Z"),
	)
	second := hitsResponse(3, "eq",
		listingHit("5f1f6f7e-0000-4000-8000-0000000000a3", "Beans 3", "2026-05-03T00:00:00Z"),
	)

	var searches []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		searches = append(searches, body)
		if _, ok := body["search_after"]; ok {
			_, _ = io.WriteString(w, second)
			return
		}
		_, _ = io.WriteString(w, first)
	}))
	t.Cleanup(srv.Close)

	s, err := NewStore(ClientConfig{Addresses: []string{srv.URL}, ListingIndex: "listings", BusinessIndex: "businesses"})
	require.NoError(t, err)
	s.pageSize = 2

	got, err := s.FindListings(context.Background(), filter.Always[domain.Listing](true))
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, l := range got {
		names = append(names, l.ProductName)
	}
	assert.Equal(t, []string{"Beans 1", "Beans 2", "Beans 3"}, names)

	require.Len(t, searches, 2)
	assert.Equal(t,
		[]any{"2026-05-02T00:00:00Z", "5f1f6f7e-0000-4000-8000-0000000000a2"},
		searches[1]["search_after"])
}

func TestStore_FindListingsFailsOnIncompleteResults(t *testing.T) {
	body := hitsResponse(25_000, "eq",
		listingHit("5f1f6f7e-0000-4000-8000-0000000000a1", "Beans 1", "2026-05-01T00:00:00Z"),
	)
	s, _ := fakeES(t, body)

	got, err := s.FindListings(context.Background(), filter.Always[domain.Listing](true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 of 25000 hits")
	assert.Nil(t, got)
}

func TestStore_FindListingsFailsOnHitWithoutSortValues(t *testing.T) {
	s, _ := fakeES(t, searchResponse)
	s.pageSize = 1

	_, err := s.FindListings(context.Background(), filter.Always[domain.Listing](true))
	assert.ErrorContains(t, err, "without sort values")
}

func TestStore_AlwaysFalseSkipsRequest(t *testing.T) {
	s, lastSearch := fakeES(t, searchResponse)

	got, err := s.FindBusinesses(context.Background(), filter.Always[domain.Business](false))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, *lastSearch)
}

func TestStore_UnsupportedFieldFailsBeforeRequest(t *testing.T) {
	s, lastSearch := fakeES(t, searchResponse)

	_, err := s.FindBusinesses(context.Background(), filter.Cond[domain.Business]("owner", filter.Eq, "x"))
	assert.Error(t, err)
	assert.Empty(t, *lastSearch)
}
