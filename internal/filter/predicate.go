// Package filter implements an immutable boolean filter tree over typed records.
//
// A Predicate is built only from leaf conditions and the And/Or/Not combinators.
// Every combinator returns a new value; the operands are never modified, so a
// predicate can be shared between goroutines and reused across requests.
//
// The same tree is evaluated in memory (Matches) and translated by the storage
// adapters into SQL or Elasticsearch queries (Root).
package filter

import (
	"strconv"
	"strings"
	"time"
)

// Field names an attribute of a record. Storage adapters map fields to columns.
type Field string

// Record is anything a predicate can be evaluated against.
type Record interface {
	// FieldValue returns the value of f, or nil when the record has no such field.
	FieldValue(f Field) any
}

// Kind discriminates the nodes of a filter tree.
type Kind int

const (
	KindConst Kind = iota
	KindAnd
	KindOr
	KindNot
	KindCond
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "CONST"
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindNot:
		return "NOT"
	case KindCond:
		return "COND"
	default:
		return "UNKNOWN"
	}
}

// Condition is a single field comparison.
type Condition struct {
	Field Field
	Op    Op
	Value any
}

// Node is one vertex of a filter tree. Nodes are shared between predicates and
// must be treated as read-only by everything outside this package.
type Node struct {
	Kind     Kind
	Const    bool
	Children []*Node
	Cond     Condition
}

var (
	trueNode  = &Node{Kind: KindConst, Const: true}
	falseNode = &Node{Kind: KindConst, Const: false}
)

// Predicate is an immutable filter over records of type T.
// The zero value matches every record.
type Predicate[T Record] struct {
	root *Node
}

// Always returns the constant predicate v.
func Always[T Record](v bool) Predicate[T] {
	if v {
		return Predicate[T]{root: trueNode}
	}
	return Predicate[T]{root: falseNode}
}

// Cond returns a leaf predicate comparing field f with value using op.
func Cond[T Record](f Field, op Op, value any) Predicate[T] {
	return Predicate[T]{root: &Node{
		Kind: KindCond,
		Cond: Condition{Field: f, Op: op, Value: value},
	}}
}

// OneOf matches records whose field f equals any of values. No values is
// Always(false) and a single value is a plain Eq leaf.
func OneOf[T Record, V any](f Field, values []V) Predicate[T] {
	switch len(values) {
	case 0:
		return Always[T](false)
	case 1:
		return Cond[T](f, Eq, values[0])
	}
	set := make([]any, len(values))
	for i, v := range values {
		set[i] = v
	}
	return Cond[T](f, In, set)
}

// Root returns the root node of the tree. It is never nil.
func (p Predicate[T]) Root() *Node {
	if p.root == nil {
		return trueNode
	}
	return p.root
}

// IsConst reports whether p is a constant predicate and returns its value.
func (p Predicate[T]) IsConst() (value bool, ok bool) {
	r := p.Root()
	if r.Kind != KindConst {
		return false, false
	}
	return r.Const, true
}

// IsAlways reports whether p is the constant predicate v.
func (p Predicate[T]) IsAlways(v bool) bool {
	c, ok := p.IsConst()
	return ok && c == v
}

// String renders the predicate in a canonical form. Equal trees render equally,
// which makes the output usable as a cache key.
func (p Predicate[T]) String() string {
	var b strings.Builder
	writeNode(&b, p.Root())
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindConst:
		b.WriteString(strconv.FormatBool(n.Const))
	case KindAnd, KindOr:
		if n.Kind == KindAnd {
			b.WriteString("and(")
		} else {
			b.WriteString("or(")
		}
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNode(b, c)
		}
		b.WriteByte(')')
	case KindNot:
		b.WriteString("not(")
		writeNode(b, n.Children[0])
		b.WriteByte(')')
	case KindCond:
		b.WriteString(string(n.Cond.Field))
		b.WriteByte(' ')
		b.WriteString(n.Cond.Op.symbol())
		b.WriteByte(' ')
		b.WriteString(formatValue(n.Cond.Value))
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case interface{ String() string }:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "null"
	default:
		return strconv.Quote("?")
	}
}
