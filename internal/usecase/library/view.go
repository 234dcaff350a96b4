package library

import (
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
)

// View is a consistent snapshot of the engine as the presentation layer sees it.
// Matches is shared between readers and must not be modified.
type View struct {
	Query       string
	Order       order.Key
	Matches     []album.Album
	IsFiltering bool

	// Total is the collection size the matches were computed from.
	Total int
	// MatchFailures counts records the last applied pass could not test.
	MatchFailures int
	// Cycle is the id of the last applied pass; zero before the first one.
	Cycle uint64
	// CollectionVersion increases on every SetAlbums that replaced the collection.
	CollectionVersion uint64
}

// applied is the result of the last pass that won, swapped atomically.
type applied struct {
	matches  []album.Album
	total    int
	failures int
	cycle    uint64
}
