// Package snapshot persists the album collection of a library section.
package snapshot

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/albumdex/internal/domain"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/repository/catalog"
	"github.com/kailas-cloud/albumdex/internal/repository/kv"
)

// Repo stores one collection snapshot per section.
type Repo struct {
	items *kv.Items
}

// New creates a snapshot repository.
func New(items *kv.Items) *Repo {
	return &Repo{items: items}
}

// Load returns the saved collection for section.
// It returns nil when section is empty or nothing was saved.
func (r *Repo) Load(ctx context.Context, section string) ([]album.Album, error) {
	key := domain.SectionAlbumsKey(section)
	if key == "" {
		return nil, nil
	}

	dtos, err := kv.GetItem[[]catalog.AlbumDTO](ctx, r.items, key, nil)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if dtos == nil {
		return nil, nil
	}

	albums, err := catalog.ToDomain(dtos)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return albums, nil
}

// Save writes albums as the snapshot for section. An empty section is a no-op.
func (r *Repo) Save(ctx context.Context, section string, albums []album.Album) error {
	key := domain.SectionAlbumsKey(section)
	if key == "" {
		return nil
	}
	if err := r.items.SetItem(ctx, key, catalog.FromDomain(albums)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
