// Package token parses the marketplace search mini-language.
//
// A query is an OR of AND-groups:
//
//	"red bike" and blue or scooter
//
// Groups are separated by " or ", terms by whitespace or " and " (both
// case-insensitive). Separators inside a quoted phrase are ignored. A term
// wrapped in double quotes is an exact phrase; anything else is fuzzy.
package token

import "strings"

const (
	orSeparator  = " or "
	andSeparator = " and "
)

// Tokenizer turns raw query strings into a Query.
type Tokenizer interface {
	Tokenize(raw string) Query
}

// QueryTokenizer is the default Tokenizer. It holds no state and is safe for
// concurrent use.
type QueryTokenizer struct{}

func NewQueryTokenizer() *QueryTokenizer {
	return &QueryTokenizer{}
}

// Tokenize splits raw into conjunctions of classified terms.
// Blank input, or input with no usable terms, yields a single empty
// conjunction: a query that matches everything.
func (t *QueryTokenizer) Tokenize(raw string) Query {
	return Tokenize(raw)
}

// Tokenize is QueryTokenizer.Tokenize without a receiver.
func Tokenize(raw string) Query {
	var q Query
	for _, segment := range splitOutsideQuotes(raw, matchOr) {
		var c Conjunction
		for _, tok := range splitOutsideQuotes(segment, matchAndOrSpace) {
			if tok == "" {
				continue
			}
			term := Classify(tok)
			if term.Text == "" {
				continue
			}
			c.Terms = append(c.Terms, term)
		}
		if len(c.Terms) > 0 {
			q.Conjunctions = append(q.Conjunctions, c)
		}
	}

	if len(q.Conjunctions) == 0 {
		q.Conjunctions = []Conjunction{{}}
	}
	return q
}

// Classify returns an exact term for a token wrapped in double quotes, with
// the outer quotes removed and the inner text kept verbatim. Any other token,
// including one with an unmatched quote, is a fuzzy term with unchanged text.
func Classify(tok string) Term {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' && !strings.Contains(tok, "\n") {
		return Term{Text: tok[1 : len(tok)-1], Exact: true}
	}
	return Term{Text: tok}
}

// splitOutsideQuotes splits s at every separator found by match, but only at
// positions with an even number of '"' to their right, i.e. outside any quoted
// span. match returns the separator length at i, or 0.
func splitOutsideQuotes(s string, match func(s string, i int) int) []string {
	quotesRight := strings.Count(s, `"`)

	var parts []string
	start := 0
	for i := 0; i < len(s); {
		if quotesRight%2 == 0 {
			if n := match(s, i); n > 0 {
				parts = append(parts, s[start:i])
				i += n
				start = i
				continue
			}
		}
		if s[i] == '"' {
			quotesRight--
		}
		i++
	}
	return append(parts, s[start:])
}

func matchOr(s string, i int) int {
	return matchFold(s, i, orSeparator)
}

// matchAndOrSpace prefers " and " over a single whitespace so the keyword is
// consumed together with its surrounding spaces.
func matchAndOrSpace(s string, i int) int {
	if n := matchFold(s, i, andSeparator); n > 0 {
		return n
	}
	if isSpace(s[i]) {
		return 1
	}
	return 0
}

func matchFold(s string, i int, sep string) int {
	if len(s)-i < len(sep) {
		return 0
	}
	if strings.EqualFold(s[i:i+len(sep)], sep) {
		return len(sep)
	}
	return 0
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
