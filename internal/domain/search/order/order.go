// Package order holds the named album orderings a match set can be sorted by.
package order

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/albumdex/internal/domain"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
)

// Key names one registered ordering.
type Key string

// Built-in order keys.
const (
	ByArtist Key = "artist"
	ByTitle  Key = "title"
	ByYear   Key = "year"
	ByRecent Key = "recent"
	ByTracks Key = "tracks"
)

// Compare returns a negative number when a sorts before b, zero when they
// are equal and a positive number otherwise. It must be pure. Built-in
// comparators break ties on album ID, so only records sharing an ID compare
// equal.
type Compare func(a, b album.Album) int

// Entry binds a key to its comparator.
type Entry struct {
	Key     Key
	Compare Compare
}

// Registry is an immutable, ordered set of orderings.
// The first entry is the default.
type Registry struct {
	entries []Entry
	byKey   map[Key]Compare
}

// NewRegistry validates and creates a Registry in declaration order.
func NewRegistry(entries ...Entry) (Registry, error) {
	if len(entries) == 0 {
		return Registry{}, fmt.Errorf("registry requires at least one ordering")
	}
	byKey := make(map[Key]Compare, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return Registry{}, fmt.Errorf("order key is required")
		}
		if e.Compare == nil {
			return Registry{}, fmt.Errorf("order %q has no comparator", e.Key)
		}
		if _, dup := byKey[e.Key]; dup {
			return Registry{}, fmt.Errorf("duplicate order %q", e.Key)
		}
		byKey[e.Key] = e.Compare
	}
	return Registry{entries: slices.Clone(entries), byKey: byKey}, nil
}

// Default returns the built-in album orderings.
func Default() Registry {
	r, err := NewRegistry(
		Entry{Key: ByArtist, Compare: compareArtist},
		Entry{Key: ByTitle, Compare: compareTitle},
		Entry{Key: ByYear, Compare: compareYear},
		Entry{Key: ByRecent, Compare: compareRecent},
		Entry{Key: ByTracks, Compare: compareTracks},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Keys returns the registered keys in declaration order.
func (r Registry) Keys() []Key {
	keys := make([]Key, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// DefaultKey returns the first declared key.
func (r Registry) DefaultKey() Key { return r.entries[0].Key }

// Has reports whether k is registered.
func (r Registry) Has(k Key) bool {
	_, ok := r.byKey[k]
	return ok
}

// Lookup returns the comparator for k.
func (r Registry) Lookup(k Key) (Compare, error) {
	c, ok := r.byKey[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOrder, k)
	}
	return c, nil
}

// Resolve returns k if registered, otherwise the default key.
func (r Registry) Resolve(k Key) Key {
	if r.Has(k) {
		return k
	}
	return r.DefaultKey()
}

// Sort stably sorts albums in place by k. Albums comparing equal keep their relative order.
func (r Registry) Sort(albums []album.Album, k Key) error {
	c, err := r.Lookup(k)
	if err != nil {
		return err
	}
	slices.SortStableFunc(albums, c)
	return nil
}

func compareArtist(a, b album.Album) int {
	return cmp.Or(
		compareFold(a.Artist(), b.Artist()),
		cmp.Compare(a.Year(), b.Year()),
		compareFold(a.Title(), b.Title()),
		strings.Compare(a.ID(), b.ID()),
	)
}

func compareTitle(a, b album.Album) int {
	return cmp.Or(
		compareFold(a.Title(), b.Title()),
		compareFold(a.Artist(), b.Artist()),
		strings.Compare(a.ID(), b.ID()),
	)
}

func compareYear(a, b album.Album) int {
	return cmp.Or(
		cmp.Compare(a.Year(), b.Year()),
		compareFold(a.Artist(), b.Artist()),
		compareFold(a.Title(), b.Title()),
		strings.Compare(a.ID(), b.ID()),
	)
}

func compareRecent(a, b album.Album) int {
	return cmp.Or(
		cmp.Compare(b.Year(), a.Year()),
		compareFold(a.Artist(), b.Artist()),
		compareFold(a.Title(), b.Title()),
		strings.Compare(a.ID(), b.ID()),
	)
}

func compareTracks(a, b album.Album) int {
	return cmp.Or(
		cmp.Compare(b.Tracks(), a.Tracks()),
		compareFold(a.Title(), b.Title()),
		strings.Compare(a.ID(), b.ID()),
	)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
