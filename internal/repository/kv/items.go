// Package kv is the generic item store behind user preferences and
// collection snapshots: JSON values under a key prefix.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/albumdex/internal/db"
)

// store is the consumer interface for item persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Items reads and writes JSON-encoded values under a key prefix.
type Items struct {
	store  store
	prefix string
}

// New creates an item store. prefix is prepended to every key.
func New(s store, prefix string) *Items {
	return &Items{store: s, prefix: prefix}
}

// Key returns the full storage key for an item key.
func (i *Items) Key(key string) string {
	return i.prefix + key
}

// GetItem decodes the item at key into a value of type T.
// A missing key returns def and a nil error; any other failure returns def and the error.
func GetItem[T any](ctx context.Context, i *Items, key string, def T) (T, error) {
	full := i.Key(key)
	data, err := i.store.Get(ctx, full)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return def, nil
		}
		return def, fmt.Errorf("get item %s: %w", full, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("decode item %s: %w", full, err)
	}
	return v, nil
}

// SetItem encodes value as JSON and stores it at key.
func (i *Items) SetItem(ctx context.Context, key string, value any) error {
	full := i.Key(key)
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", full, err)
	}
	if err := i.store.Set(ctx, full, data); err != nil {
		return fmt.Errorf("set item %s: %w", full, err)
	}
	return nil
}
