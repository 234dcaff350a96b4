package library

import (
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
)

// Matcher tests one album against a predicate set.
type Matcher interface {
	Match(a album.Album, p query.PredicateSet) (bool, error)
}

// Parser turns the query string into predicates.
type Parser interface {
	Parse(q string) query.PredicateSet
}
