package filter

import (
	"fmt"
	"strings"
)

// Op is the comparison a leaf condition applies to a single field.
//
// Usage:
//
//	filter.Cond[domain.Listing](domain.FieldListingPrice, filter.Gte, 10.0)
type Op string

const (
	// Eq is exact equality, used for identifiers.
	Eq Op = "eq"

	// EqualFold is case-insensitive whole-value equality on strings.
	EqualFold Op = "ieq"

	// ContainsFold is case-insensitive substring containment on strings.
	ContainsFold Op = "icontains"

	// Gte is an inclusive lower bound on numbers and times.
	Gte Op = "gte"

	// Lte is an inclusive upper bound on numbers and times.
	Lte Op = "lte"

	// In is exact membership in a set of values. Its condition value is a
	// []any, built with OneOf.
	In Op = "in"
)

func ParseOp(s string) (Op, error) {
	op := Op(strings.ToLower(s))
	switch op {
	case Eq, EqualFold, ContainsFold, Gte, Lte, In:
		return op, nil
	default:
		return "", fmt.Errorf("invalid operator: %q", s)
	}
}

// String returns the string representation of the operator
func (o Op) String() string {
	return string(o)
}

// symbol is the infix form used by Predicate.String.
func (o Op) symbol() string {
	switch o {
	case Eq:
		return "=="
	case EqualFold:
		return "=~"
	case ContainsFold:
		return "~"
	case Gte:
		return ">="
	case Lte:
		return "<="
	case In:
		return "in"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON serialization
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON deserialization
func (o *Op) UnmarshalText(text []byte) error {
	op, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
