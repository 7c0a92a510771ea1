package es

import (
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

// Query translates p into an Elasticsearch query over keyword, numeric and
// date fields. Field names are used as document field names and must appear
// in fields.
func Query[T filter.Record](p filter.Predicate[T], fields map[filter.Field]struct{}) (*types.Query, error) {
	return translate(p.Root(), fields)
}

func translate(n *filter.Node, fields map[filter.Field]struct{}) (*types.Query, error) {
	switch n.Kind {
	case filter.KindConst:
		if n.Const {
			return &types.Query{MatchAll: &types.MatchAllQuery{}}, nil
		}
		return &types.Query{MatchNone: &types.MatchNoneQuery{}}, nil
	case filter.KindAnd, filter.KindOr, filter.KindNot:
		clauses := make([]types.Query, 0, len(n.Children))
		for _, c := range n.Children {
			q, err := translate(c, fields)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, *q)
		}
		switch n.Kind {
		case filter.KindAnd:
			return &types.Query{Bool: &types.BoolQuery{Filter: clauses}}, nil
		case filter.KindOr:
			return &types.Query{Bool: &types.BoolQuery{Should: clauses, MinimumShouldMatch: 1}}, nil
		default:
			return &types.Query{Bool: &types.BoolQuery{MustNot: clauses}}, nil
		}
	case filter.KindCond:
		if _, ok := fields[n.Cond.Field]; !ok {
			return nil, fmt.Errorf(string(storage.ErrUnsupportedField), n.Cond.Field)
		}
		return leaf(n.Cond)
	}
	return nil, fmt.Errorf("unknown filter node kind: %s", n.Kind)
}

func leaf(c filter.Condition) (*types.Query, error) {
	field := string(c.Field)
	caseInsensitive := true

	switch c.Op {
	case filter.Eq:
		return &types.Query{Term: map[string]types.TermQuery{
			field: {Value: termValue(c.Value)},
		}}, nil
	case filter.In:
		set, ok := c.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("set on %s needs a []any, got %T", field, c.Value)
		}
		values := make([]types.FieldValue, len(set))
		for i, v := range set {
			values[i] = termValue(v)
		}
		return &types.Query{Terms: &types.TermsQuery{
			TermsQuery: map[string]types.TermsQueryField{field: values},
		}}, nil
	case filter.EqualFold:
		return &types.Query{Term: map[string]types.TermQuery{
			field: {Value: termValue(c.Value), CaseInsensitive: &caseInsensitive},
		}}, nil
	case filter.ContainsFold:
		s, ok := c.Value.(string)
		if !ok {
			return nil, fmt.Errorf("contains on %s needs a string, got %T", field, c.Value)
		}
		pattern := "*" + escapeWildcard(s) + "*"
		return &types.Query{Wildcard: map[string]types.WildcardQuery{
			field: {Value: &pattern, CaseInsensitive: &caseInsensitive},
		}}, nil
	case filter.Gte, filter.Lte:
		r, err := rangeQuery(c)
		if err != nil {
			return nil, err
		}
		return &types.Query{Range: map[string]types.RangeQuery{field: r}}, nil
	}
	return nil, fmt.Errorf(string(storage.ErrUnsupportedOp), c.Op)
}

func rangeQuery(c filter.Condition) (types.RangeQuery, error) {
	gte := c.Op == filter.Gte
	switch v := c.Value.(type) {
	case time.Time:
		s := v.UTC().Format(time.RFC3339Nano)
		if gte {
			return types.DateRangeQuery{Gte: &s}, nil
		}
		return types.DateRangeQuery{Lte: &s}, nil
	case float64:
		f := types.Float64(v)
		if gte {
			return types.NumberRangeQuery{Gte: &f}, nil
		}
		return types.NumberRangeQuery{Lte: &f}, nil
	case int:
		f := types.Float64(v)
		if gte {
			return types.NumberRangeQuery{Gte: &f}, nil
		}
		return types.NumberRangeQuery{Lte: &f}, nil
	}
	return nil, fmt.Errorf("range on %s needs a number or time, got %T", c.Field, c.Value)
}

func termValue(v any) types.FieldValue {
	switch x := v.(type) {
	case uuid.UUID:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}
	return v
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
