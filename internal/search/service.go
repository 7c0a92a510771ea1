package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/metrics"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/pkg/pagination"
	"github.com/google/uuid"
)

// ListingView is a listing joined with the business selling it. Business is
// nil when the business could not be found.
type ListingView struct {
	domain.Listing
	Business *domain.Business `json:"business,omitempty"`
}

func (v ListingView) businessName() string {
	if v.Business == nil {
		return ""
	}
	return v.Business.Name
}

func (v ListingView) businessCountry() string {
	if v.Business == nil {
		return ""
	}
	return v.Business.Country
}

func (v ListingView) businessCity() string {
	if v.Business == nil {
		return ""
	}
	return v.Business.City
}

// Query is a paged, sorted listing search.
type Query struct {
	Request
	Sort SortKey
	Page pagination.OffsetRequest
}

type Service struct {
	compiler   *Compiler
	listings   storage.ListingStore
	businesses storage.BusinessStore
	metrics    *metrics.Metrics
}

func NewService(listings storage.ListingStore, businesses storage.BusinessStore, m *metrics.Metrics) *Service {
	return &Service{
		compiler:   NewCompiler(businesses, WithMetrics(m)),
		listings:   listings,
		businesses: businesses,
		metrics:    m,
	}
}

// Search compiles q, selects the matching listings, joins their businesses
// and returns the requested page in the requested order.
func (s *Service) Search(ctx context.Context, q Query) (*pagination.OffsetResult[ListingView], error) {
	res, err := s.search(ctx, q)
	switch {
	case err != nil:
		s.metrics.ObserveSearch(metrics.ResultError)
	case res.Total == 0:
		s.metrics.ObserveSearch(metrics.ResultEmpty)
	default:
		s.metrics.ObserveSearch(metrics.ResultOK)
	}
	return res, err
}

func (s *Service) search(ctx context.Context, q Query) (*pagination.OffsetResult[ListingView], error) {
	p, err := s.compiler.Compile(ctx, q.Request)
	if err != nil {
		return nil, err
	}

	var listings []domain.Listing
	if !p.IsAlways(false) {
		listings, err = s.listings.Find(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to find listings: %w", err)
		}
	}

	views, err := s.join(ctx, listings)
	if err != nil {
		return nil, err
	}
	q.Sort.Sort(views)

	slog.Info("Listing search completed",
		"query", q.Query,
		"matches", len(views),
		"sort", string(q.Sort),
		"page", q.Page.Page)

	return pagination.Paginate(views, q.Page), nil
}

func (s *Service) join(ctx context.Context, listings []domain.Listing) ([]ListingView, error) {
	views := make([]ListingView, len(listings))
	if len(listings) == 0 {
		return views, nil
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, l := range listings {
		if _, ok := seen[l.BusinessID]; !ok {
			seen[l.BusinessID] = struct{}{}
			ids = append(ids, l.BusinessID)
		}
	}

	businesses, err := s.businesses.Find(ctx, domain.BusinessIn(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load listing businesses: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Business, len(businesses))
	for i := range businesses {
		byID[businesses[i].ID] = &businesses[i]
	}

	for i, l := range listings {
		views[i] = ListingView{Listing: l, Business: byID[l.BusinessID]}
	}
	return views, nil
}
