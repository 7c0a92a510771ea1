package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/metrics"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/token"
	"github.com/google/uuid"
)

// FieldSelector names a searchable listing attribute.
type FieldSelector int

const (
	ProductName FieldSelector = iota
	BusinessName
	BusinessCountry
	BusinessType
)

func (f FieldSelector) String() string {
	switch f {
	case ProductName:
		return "product_name"
	case BusinessName:
		return "business_name"
	case BusinessCountry:
		return "business_country"
	case BusinessType:
		return "business_type"
	default:
		return "unknown"
	}
}

// Flags are the per-field switches a search request carries. Every enabled
// field must match for a listing to be selected.
type Flags struct {
	MatchingProductName      bool `json:"matchingProductName"`
	MatchingBusinessName     bool `json:"matchingBusinessName"`
	MatchingBusinessLocation bool `json:"matchingBusinessLocation"`
	MatchingBusinessType     bool `json:"matchingBusinessType"`
}

// Selectors returns the enabled fields in a fixed order.
func (f Flags) Selectors() []FieldSelector {
	var out []FieldSelector
	if f.MatchingProductName {
		out = append(out, ProductName)
	}
	if f.MatchingBusinessName {
		out = append(out, BusinessName)
	}
	if f.MatchingBusinessLocation {
		out = append(out, BusinessCountry)
	}
	if f.MatchingBusinessType {
		out = append(out, BusinessType)
	}
	return out
}

// TermPredicate matches field against one term: a fuzzy term matches by
// case-insensitive equality or containment, an exact term by case-insensitive
// equality only.
func TermPredicate[T filter.Record](field filter.Field, term token.Term) filter.Predicate[T] {
	eq := filter.Cond[T](field, filter.EqualFold, term.Text)
	if term.Exact {
		return eq
	}
	return filter.Or(eq, filter.Cond[T](field, filter.ContainsFold, term.Text))
}

// QueryPredicate ORs the conjunctions of q, each the AND of its term predicates.
// A match-all query yields Always(true).
func QueryPredicate[T filter.Record](field filter.Field, q token.Query) filter.Predicate[T] {
	conjunctions := make([]filter.Predicate[T], 0, len(q.Conjunctions))
	for _, c := range q.Conjunctions {
		terms := make([]filter.Predicate[T], 0, len(c.Terms))
		for _, term := range c.Terms {
			terms = append(terms, TermPredicate[T](field, term))
		}
		conjunctions = append(conjunctions, filter.AllOf(terms))
	}
	return filter.AnyOf(conjunctions)
}

// FieldStrategy turns a parsed query into a listing predicate for one field.
type FieldStrategy interface {
	Build(ctx context.Context, q token.Query) (filter.Predicate[domain.Listing], error)
}

// directField matches an attribute stored on the listing itself.
type directField struct {
	field filter.Field
}

func (s directField) Build(_ context.Context, q token.Query) (filter.Predicate[domain.Listing], error) {
	return QueryPredicate[domain.Listing](s.field, q), nil
}

// relatedField matches an attribute of the business owning the listing. The
// query runs against the business store first; the matching business ids then
// become the listing predicate.
type relatedField struct {
	selector   FieldSelector
	field      filter.Field
	businesses storage.BusinessStore
	metrics    *metrics.Metrics
}

func (s relatedField) Build(ctx context.Context, q token.Query) (filter.Predicate[domain.Listing], error) {
	bp := QueryPredicate[domain.Business](s.field, q)
	if v, ok := bp.IsConst(); ok {
		return filter.Always[domain.Listing](v), nil
	}

	businesses, err := s.businesses.Find(ctx, bp)
	if err != nil {
		return filter.Always[domain.Listing](false), fmt.Errorf("failed to find businesses by %s: %w", s.selector, err)
	}
	s.metrics.ObserveBusinessLookup(s.selector.String(), len(businesses))
	slog.Debug("Resolved business field",
		"field", s.selector.String(),
		"filter", bp.String(),
		"matches", len(businesses))

	seen := make(map[uuid.UUID]struct{}, len(businesses))
	ids := make([]uuid.UUID, 0, len(businesses))
	for _, b := range businesses {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		ids = append(ids, b.ID)
	}
	// no matching business means no listing can match
	return domain.ListingBusinessIn(ids), nil
}

func newStrategies(businesses storage.BusinessStore, m *metrics.Metrics) map[FieldSelector]FieldStrategy {
	related := func(sel FieldSelector, field filter.Field) FieldStrategy {
		return relatedField{selector: sel, field: field, businesses: businesses, metrics: m}
	}
	return map[FieldSelector]FieldStrategy{
		ProductName:     directField{field: domain.FieldListingProductName},
		BusinessName:    related(BusinessName, domain.FieldBusinessName),
		BusinessCountry: related(BusinessCountry, domain.FieldBusinessCountry),
		BusinessType:    related(BusinessType, domain.FieldBusinessType),
	}
}
