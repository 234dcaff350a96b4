package preference

import (
	"context"

	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/usecase/library"
)

// Store persists the query and order.
type Store interface {
	Query(ctx context.Context, def string) (string, error)
	Order(ctx context.Context, def order.Key) (order.Key, error)
	Save(ctx context.Context, query string, key order.Key) error
}

// Snapshots persists the collection of a section.
type Snapshots interface {
	Load(ctx context.Context, section string) ([]album.Album, error)
	Save(ctx context.Context, section string, albums []album.Album) error
}

// Engine is the part of the recompute pipeline the syncer drives and observes.
type Engine interface {
	SetQuery(text string)
	SetOrder(k order.Key) error
	SetAlbums(albums []album.Album)
	Albums() []album.Album
	Registry() order.Registry
	View() library.View
	Subscribe(fn func(library.View)) (unsubscribe func())
}
