package filter

import (
	"math"
	"strings"
	"time"
)

// Matches evaluates p against rec.
func (p Predicate[T]) Matches(rec T) bool {
	return evalNode(p.Root(), rec)
}

// Select returns the records of recs matched by p, in their original order.
func Select[T Record](p Predicate[T], recs []T) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if p.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func evalNode(n *Node, rec Record) bool {
	switch n.Kind {
	case KindConst:
		return n.Const
	case KindAnd:
		for _, c := range n.Children {
			if !evalNode(c, rec) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range n.Children {
			if evalNode(c, rec) {
				return true
			}
		}
		return false
	case KindNot:
		return !evalNode(n.Children[0], rec)
	case KindCond:
		return evalCond(n.Cond, rec.FieldValue(n.Cond.Field))
	default:
		return false
	}
}

func evalCond(c Condition, actual any) bool {
	if actual == nil {
		return false
	}

	switch c.Op {
	case Eq:
		return equal(actual, c.Value)
	case In:
		set, ok := c.Value.([]any)
		if !ok {
			return false
		}
		for _, v := range set {
			if equal(actual, v) {
				return true
			}
		}
		return false
	case EqualFold:
		a, ok1 := actual.(string)
		want, ok2 := c.Value.(string)
		return ok1 && ok2 && strings.EqualFold(a, want)
	case ContainsFold:
		a, ok1 := actual.(string)
		want, ok2 := c.Value.(string)
		return ok1 && ok2 && strings.Contains(strings.ToLower(a), strings.ToLower(want))
	case Gte:
		cmp, ok := compare(actual, c.Value)
		return ok && cmp >= 0
	case Lte:
		cmp, ok := compare(actual, c.Value)
		return ok && cmp <= 0
	default:
		return false
	}
}

func equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	defer func() {
		// non-comparable dynamic types never match
		_ = recover()
	}()
	return a == b
}

// compare orders two values of the same kind. ok is false when the values
// cannot be ordered against each other, which includes any NaN operand.
func compare(a, b any) (cmp int, ok bool) {
	switch a.(type) {
	case float64, int, int64:
		x, _ := toFloat(a)
		y, ok := toFloat(b)
		if !ok || math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		return cmpOrdered(x, y), true
	}

	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// cmpOrdered orders two non-NaN floats.
func cmpOrdered(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
