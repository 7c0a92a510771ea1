// Package sqlgen translates filter predicates into parameterised SQL WHERE
// clauses for the Postgres and SQLite stores.
package sqlgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)

// Dialect captures the differences between SQL backends that matter to
// predicate translation.
type Dialect struct {
	Name        string
	Placeholder PlaceholderStyle
	// Contains renders "haystack contains needle" for two lower-cased operands.
	Contains func(haystack, needle string) string
	// Value converts a predicate value into a driver argument.
	Value func(v any) any
	// Set converts a value set into a single driver argument.
	Set func(values []any) (any, error)
	// In renders "col is one of the set bound to placeholder"; sample is a
	// member of the set before conversion.
	In func(col, placeholder string, sample any) string
}

var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: PlaceholderDollar,
	Contains: func(haystack, needle string) string {
		return "strpos(" + haystack + ", " + needle + ") > 0"
	},
	Value: func(v any) any { return v },
	Set:   postgresSet,
	In: func(col, placeholder string, sample any) string {
		if _, ok := sample.(uuid.UUID); ok {
			return col + " = ANY(" + placeholder + "::uuid[])"
		}
		return col + " = ANY(" + placeholder + ")"
	},
}

// postgresSet binds a set as one typed array parameter.
func postgresSet(values []any) (any, error) {
	switch values[0].(type) {
	case uuid.UUID:
		return setOf[uuid.UUID](values)
	case string:
		return setOf[string](values)
	case float64:
		return setOf[float64](values)
	}
	return nil, fmt.Errorf("unsupported set member %T", values[0])
}

func setOf[E any](values []any) ([]E, error) {
	out := make([]E, len(values))
	for i, v := range values {
		e, ok := v.(E)
		if !ok {
			return nil, fmt.Errorf("mixed set members: %T and %T", values[0], v)
		}
		out[i] = e
	}
	return out, nil
}

// SQLite stores times as unix milliseconds and ids as text.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: PlaceholderQuestion,
	Contains: func(haystack, needle string) string {
		return "instr(" + haystack + ", " + needle + ") > 0"
	},
	Value: func(v any) any {
		switch x := v.(type) {
		case time.Time:
			return x.UnixMilli()
		case uuid.UUID:
			return x.String()
		}
		return v
	},
	// the set is bound as one JSON array and expanded by json_each
	Set: func(values []any) (any, error) {
		conv := make([]any, len(values))
		for i, v := range values {
			switch x := v.(type) {
			case time.Time:
				conv[i] = x.UnixMilli()
			case uuid.UUID:
				conv[i] = x.String()
			default:
				conv[i] = v
			}
		}
		b, err := json.Marshal(conv)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value set: %w", err)
		}
		return string(b), nil
	},
	In: func(col, placeholder string, _ any) string {
		return col + " IN (SELECT value FROM json_each(" + placeholder + "))"
	},
}

// Builder accumulates positional arguments while a statement is rendered.
type Builder struct {
	dialect Dialect
	args    []any
}

func New(d Dialect) *Builder {
	return &Builder{dialect: d, args: make([]any, 0)}
}

// Arg records v and returns its placeholder.
func (b *Builder) Arg(v any) string {
	return b.bind(b.dialect.Value(v))
}

// ArgSet records values as a single argument and returns its placeholder.
func (b *Builder) ArgSet(values []any) (string, error) {
	v, err := b.dialect.Set(values)
	if err != nil {
		return "", err
	}
	return b.bind(v), nil
}

func (b *Builder) bind(v any) string {
	b.args = append(b.args, v)
	if b.dialect.Placeholder == PlaceholderDollar {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

func (b *Builder) Args() []any { return b.args }
func (b *Builder) Len() int    { return len(b.args) }
