// Package preference persists the user's search query and ordering.
package preference

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/albumdex/internal/domain"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/repository/kv"
)

// Repo stores the query and order as independent items.
type Repo struct {
	items *kv.Items
}

// New creates a preference repository.
func New(items *kv.Items) *Repo {
	return &Repo{items: items}
}

// Query returns the saved query, or def when none is stored.
func (r *Repo) Query(ctx context.Context, def string) (string, error) {
	q, err := kv.GetItem(ctx, r.items, domain.QueryKey, def)
	if err != nil {
		return def, fmt.Errorf("load query: %w", err)
	}
	return q, nil
}

// Order returns the saved order key, or def when none is stored.
// The key is not validated against any registry.
func (r *Repo) Order(ctx context.Context, def order.Key) (order.Key, error) {
	k, err := kv.GetItem(ctx, r.items, domain.OrderKey, string(def))
	if err != nil {
		return def, fmt.Errorf("load order: %w", err)
	}
	return order.Key(k), nil
}

// Save writes both preferences. The query is written first; a failure
// stops before the order is written.
func (r *Repo) Save(ctx context.Context, query string, key order.Key) error {
	if err := r.items.SetItem(ctx, domain.QueryKey, query); err != nil {
		return fmt.Errorf("save query: %w", err)
	}
	if err := r.items.SetItem(ctx, domain.OrderKey, string(key)); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}
