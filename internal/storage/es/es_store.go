package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/totalhitsrelation"
	"github.com/google/uuid"
)

// PageSize is the number of hits fetched per search_after round trip.
const PageSize = 1_000

type Store struct {
	client        *elasticsearch.TypedClient
	listingIndex  string
	businessIndex string
	pageSize      int
}

func NewStore(config ClientConfig) (*Store, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Store{
		client:        client,
		listingIndex:  config.ListingIndex,
		businessIndex: config.BusinessIndex,
		pageSize:      PageSize,
	}, nil
}

func (s *Store) Listings() storage.ListingStore {
	return storage.ListingStoreFunc(s.FindListings)
}

func (s *Store) Businesses() storage.BusinessStore {
	return storage.BusinessStoreFunc(s.FindBusinesses)
}

func (s *Store) FindListings(ctx context.Context, p filter.Predicate[domain.Listing]) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0)
	if p.IsAlways(false) {
		return out, nil
	}

	q, err := Query(p, listingFields)
	if err != nil {
		return nil, err
	}
	hits, err := s.search(ctx, s.listingIndex, q, "created")
	if err != nil {
		return nil, err
	}

	for _, hit := range hits {
		var doc listingDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing document: %w", err)
		}
		l, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid listing document %s: %w", doc.ID, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) FindBusinesses(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error) {
	out := make([]domain.Business, 0)
	if p.IsAlways(false) {
		return out, nil
	}

	q, err := Query(p, businessFields)
	if err != nil {
		return nil, err
	}
	hits, err := s.search(ctx, s.businessIndex, q, "name")
	if err != nil {
		return nil, err
	}

	for _, hit := range hits {
		var doc businessDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode business document: %w", err)
		}
		b, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid business document %s: %w", doc.ID, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// search pages through every hit with search_after, sorted by sortField then
// id. It fails rather than return fewer hits than the reported exact total.
func (s *Store) search(ctx context.Context, index string, q *types.Query, sortField string) ([]types.Hit, error) {
	asc := sortorder.Asc
	var (
		hits  []types.Hit
		after []types.FieldValue
		total *types.TotalHits
	)

	for {
		req := s.client.Search().
			Index(index).
			Query(q).
			Size(s.pageSize).
			TrackTotalHits(true).
			Sort(
				&types.SortOptions{SortOptions: map[string]types.FieldSort{sortField: {Order: &asc}}},
				&types.SortOptions{SortOptions: map[string]types.FieldSort{"id": {Order: &asc}}},
			)
		if after != nil {
			req = req.SearchAfter(after...)
		}

		res, err := req.Do(ctx)
		if err != nil {
			slog.Error("Elasticsearch query failed", "error", err, "index", index)
			return nil, fmt.Errorf("failed to execute search on %s: %w", index, err)
		}
		if total == nil {
			total = res.Hits.Total
		}

		page := res.Hits.Hits
		hits = append(hits, page...)
		if len(page) < s.pageSize {
			break
		}
		after = page[len(page)-1].Sort
		if len(after) == 0 {
			return nil, fmt.Errorf("search on %s returned a hit without sort values", index)
		}
	}

	if total != nil && total.Relation == totalhitsrelation.Eq && int64(len(hits)) < total.Value {
		slog.Error("Elasticsearch returned incomplete results", "index", index, "returned_count", len(hits), "total", total.Value)
		return nil, fmt.Errorf("incomplete search on %s: got %d of %d hits", index, len(hits), total.Value)
	}

	slog.Info("Es filter results fetched", "index", index, "returned_count", len(hits))
	return hits, nil
}

// EnsureIndices creates the listing and business indices if missing.
func (s *Store) EnsureIndices(ctx context.Context) error {
	if err := s.ensureIndex(ctx, s.businessIndex, businessMapping()); err != nil {
		return err
	}
	return s.ensureIndex(ctx, s.listingIndex, listingMapping())
}

func (s *Store) ensureIndex(ctx context.Context, index string, mapping types.TypeMapping) error {
	exists, err := s.client.Indices.Exists(index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", index)
		return nil
	}

	res, err := s.client.Indices.Create(index).Mappings(&mapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged: %s", index)
	}

	slog.Info("Index created successfully", "index", index)
	return nil
}

func (s *Store) SaveBusinesses(ctx context.Context, businesses []domain.Business) error {
	docs := make(map[string]any, len(businesses))
	for _, b := range businesses {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		docs[b.ID.String()] = toBusinessDocument(b)
	}
	return s.bulkIndex(ctx, s.businessIndex, docs)
}

func (s *Store) SaveListings(ctx context.Context, listings []domain.Listing) error {
	now := time.Now().UTC()
	docs := make(map[string]any, len(listings))
	for _, l := range listings {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		if l.Created.IsZero() {
			l.Created = now
		}
		docs[l.ID.String()] = toListingDocument(l)
	}
	return s.bulkIndex(ctx, s.listingIndex, docs)
}

func (s *Store) bulkIndex(ctx context.Context, index string, docs map[string]any) error {
	if len(docs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         index,
		Client:        s.client,
		NumWorkers:    4,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	for id, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to marshal document", "error", err, "id", id)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(body),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(docs),
		"index", index)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d documents", n, len(docs))
	}
	return nil
}

func fieldSet(fields ...filter.Field) map[filter.Field]struct{} {
	set := make(map[filter.Field]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
