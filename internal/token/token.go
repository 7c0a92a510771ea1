package token

import (
	"strconv"
	"strings"
)

// Kind tells how a term is matched against a field.
type Kind int

const (
	// FUZZY terms match by case-insensitive equality or substring.
	FUZZY Kind = iota
	// EXACT terms come from a quoted phrase and match the whole field only.
	EXACT
)

func (k Kind) String() string {
	switch k {
	case FUZZY:
		return "FUZZY"
	case EXACT:
		return "EXACT"
	default:
		return "UNKNOWN"
	}
}

// Term is a single search term. Text is never empty.
type Term struct {
	Text  string
	Exact bool
}

// Kind returns EXACT for quoted terms and FUZZY otherwise.
func (t Term) Kind() Kind {
	if t.Exact {
		return EXACT
	}
	return FUZZY
}

func (t Term) String() string {
	if t.Exact {
		return strconv.Quote(t.Text)
	}
	return t.Text
}

// Conjunction is an AND-group of terms.
type Conjunction struct {
	Terms []Term
}

func (c Conjunction) String() string {
	parts := make([]string, len(c.Terms))
	for i, t := range c.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " AND ")
}

// Query is an OR of conjunctions. A query whose only conjunction has no terms
// places no constraint on a field.
type Query struct {
	Conjunctions []Conjunction
}

// IsMatchAll reports whether q imposes no constraint.
func (q Query) IsMatchAll() bool {
	for _, c := range q.Conjunctions {
		if len(c.Terms) == 0 {
			return true
		}
	}
	return len(q.Conjunctions) == 0
}

func (q Query) String() string {
	parts := make([]string, len(q.Conjunctions))
	for i, c := range q.Conjunctions {
		parts[i] = "(" + c.String() + ")"
	}
	return strings.Join(parts, " OR ")
}
