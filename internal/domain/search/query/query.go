// Package query parses search strings into predicate sets.
//
// The grammar recognises three predicate forms anywhere in the text:
//
//	key:value
//	key:"value with spaces"
//	key:'value with spaces'
//
// Keys and bare values are runs of ASCII letters, digits and underscores.
// Recognised predicates are removed from the text; what remains, trimmed,
// is the free text. Malformed predicates (unbalanced or empty quotes, a
// colon with nothing usable after it) stay in the free text unchanged.
// Parsing never fails.
package query

import (
	"maps"
	"slices"
	"strings"
)

// PredicateSet is the parsed form of a query (immutable value object).
type PredicateSet struct {
	freeText string
	fields   map[string]string
}

// New creates a PredicateSet. Field keys are lower-cased; free text is trimmed.
func New(freeText string, fields map[string]string) PredicateSet {
	var f map[string]string
	if len(fields) > 0 {
		f = make(map[string]string, len(fields))
		for k, v := range fields {
			f[strings.ToLower(k)] = v
		}
	}
	return PredicateSet{freeText: strings.TrimSpace(freeText), fields: f}
}

// FreeText returns the text left after all predicates were removed.
func (p PredicateSet) FreeText() string { return p.freeText }

// Fields returns a copy of the field predicates keyed by lower-cased field name.
func (p PredicateSet) Fields() map[string]string { return maps.Clone(p.fields) }

// Field returns the predicate value for key.
func (p PredicateSet) Field(key string) (string, bool) {
	v, ok := p.fields[key]
	return v, ok
}

// Keys returns the predicate keys in sorted order.
func (p PredicateSet) Keys() []string {
	return slices.Sorted(maps.Keys(p.fields))
}

// Len returns the number of field predicates.
func (p PredicateSet) Len() int { return len(p.fields) }

// IsEmpty reports whether the set matches everything.
func (p PredicateSet) IsEmpty() bool { return p.freeText == "" && len(p.fields) == 0 }

// Equal reports whether two sets are identical.
func (p PredicateSet) Equal(o PredicateSet) bool {
	return p.freeText == o.freeText && maps.Equal(p.fields, o.fields)
}

// Parser tokenizes queries, optionally against a field schema.
type Parser struct {
	known func(key string) bool
}

// NewParser creates a Parser that only accepts predicates whose key passes known.
// Predicates with any other key are kept verbatim in the free text.
// A nil known accepts every key.
func NewParser(known func(key string) bool) Parser {
	return Parser{known: known}
}

// Parse tokenizes q with a Parser that accepts every key.
func Parse(q string) PredicateSet {
	return Parser{}.Parse(q)
}

// Parse tokenizes q in a single left-to-right pass.
// For duplicate keys the last occurrence wins.
func (p Parser) Parse(q string) PredicateSet {
	var (
		rest   strings.Builder
		fields map[string]string
	)
	rest.Grow(len(q))

	for i := 0; i < len(q); {
		if isWordByte(q[i]) && (i == 0 || !isWordByte(q[i-1])) {
			if tok, ok := scanPredicate(q, i); ok {
				key := strings.ToLower(tok.key)
				if p.known == nil || p.known(key) {
					if fields == nil {
						fields = make(map[string]string)
					}
					fields[key] = tok.value
				} else {
					rest.WriteString(q[i:tok.end])
				}
				i = tok.end
				continue
			}
		}
		rest.WriteByte(q[i])
		i++
	}

	return PredicateSet{freeText: strings.TrimSpace(rest.String()), fields: fields}
}

type token struct {
	key   string
	value string
	end   int
}

// scanPredicate tries to read a predicate starting at the word run at start.
func scanPredicate(q string, start int) (token, bool) {
	j := start
	for j < len(q) && isWordByte(q[j]) {
		j++
	}
	if j >= len(q) || q[j] != ':' {
		return token{}, false
	}
	key := q[start:j]
	j++ // colon
	if j >= len(q) {
		return token{}, false
	}

	switch c := q[j]; {
	case isWordByte(c):
		k := j
		for k < len(q) && isWordByte(q[k]) {
			k++
		}
		return token{key: key, value: q[j:k], end: k}, true
	case c == '"' || c == '\'':
		closing := strings.IndexByte(q[j+1:], c)
		if closing <= 0 {
			return token{}, false
		}
		valueEnd := j + 1 + closing
		return token{key: key, value: q[j+1 : valueEnd], end: valueEnd + 1}, true
	default:
		return token{}, false
	}
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
