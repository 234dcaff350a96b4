// Package match decides whether an album satisfies a predicate set.
package match

import (
	"fmt"

	"github.com/kailas-cloud/albumdex/internal/domain"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/album/field"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
)

// Matcher tests albums against predicate sets using a field schema.
type Matcher struct {
	schema field.Schema
}

// New creates a Matcher bound to schema.
func New(schema field.Schema) Matcher {
	return Matcher{schema: schema}
}

// Default returns a Matcher over the album schema.
func Default() Matcher {
	return New(album.Schema())
}

// Match reports whether a satisfies every predicate in p.
//
// Every field predicate must hold (tested in key order), and non-empty
// free text must be found in at least one default field. An empty set
// matches everything.
// A predicate the record cannot be tested against yields false together
// with ErrUnknownField or a FieldMissingError; callers treat it as a non-match.
func (m Matcher) Match(a album.Album, p query.PredicateSet) (bool, error) {
	if p.IsEmpty() {
		return true, nil
	}

	for _, key := range p.Keys() {
		want, _ := p.Field(key)
		f, ok := m.schema.Lookup(key)
		if !ok {
			return false, fmt.Errorf("%w: %q", domain.ErrUnknownField, key)
		}
		value, ok := a.Field(f.Name())
		if !ok {
			return false, domain.NewFieldMissing(a.ID(), f.Name())
		}
		if !f.Matches(value, want) {
			return false, nil
		}
	}

	if text := p.FreeText(); text != "" {
		for _, f := range m.schema.Defaults() {
			if value, ok := a.Field(f.Name()); ok && field.ContainsFold(value, text) {
				return true, nil
			}
		}
		return false, nil
	}

	return true, nil
}
