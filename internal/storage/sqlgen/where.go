package sqlgen

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
)

// Columns maps record fields to column expressions.
type Columns map[filter.Field]string

// Where renders p as a boolean SQL expression, appending its arguments to b.
// Case-insensitive operators lower both sides.
func Where[T filter.Record](p filter.Predicate[T], cols Columns, b *Builder) (string, error) {
	return where(p.Root(), cols, b)
}

func where(n *filter.Node, cols Columns, b *Builder) (string, error) {
	switch n.Kind {
	case filter.KindConst:
		if n.Const {
			return "1=1", nil
		}
		return "1=0", nil
	case filter.KindAnd, filter.KindOr:
		sep := " AND "
		if n.Kind == filter.KindOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			s, err := where(c, cols, b)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	case filter.KindNot:
		s, err := where(n.Children[0], cols, b)
		if err != nil {
			return "", err
		}
		return "NOT (" + s + ")", nil
	case filter.KindCond:
		return cond(n.Cond, cols, b)
	}
	return "", fmt.Errorf("unknown filter node kind: %s", n.Kind)
}

func cond(c filter.Condition, cols Columns, b *Builder) (string, error) {
	col, ok := cols[c.Field]
	if !ok {
		return "", fmt.Errorf(string(storage.ErrUnsupportedField), c.Field)
	}

	switch c.Op {
	case filter.Eq:
		return col + " = " + b.Arg(c.Value), nil
	case filter.In:
		set, ok := c.Value.([]any)
		if !ok || len(set) == 0 {
			return "", fmt.Errorf("set on %s needs a non-empty []any, got %T", c.Field, c.Value)
		}
		ph, err := b.ArgSet(set)
		if err != nil {
			return "", fmt.Errorf("invalid set on %s: %w", c.Field, err)
		}
		return b.dialect.In(col, ph, set[0]), nil
	case filter.EqualFold:
		return "lower(" + col + ") = lower(" + b.Arg(c.Value) + ")", nil
	case filter.ContainsFold:
		return b.dialect.Contains("lower("+col+")", "lower("+b.Arg(c.Value)+")"), nil
	case filter.Gte:
		return col + " >= " + b.Arg(c.Value), nil
	case filter.Lte:
		return col + " <= " + b.Arg(c.Value), nil
	}
	return "", fmt.Errorf(string(storage.ErrUnsupportedOp), c.Op)
}
