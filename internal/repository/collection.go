package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"stockvue/pkg/kvstore"
	"stockvue/pkg/logger"
)

// Collection persists a whole []T under one key.
type Collection[T any] struct {
	store kvstore.Store
	key   string
	log   *logger.Logger
}

func NewCollection[T any](store kvstore.Store, key string, log *logger.Logger) *Collection[T] {
	return &Collection[T]{store: store, key: key, log: log}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load never fails: an absent, unreadable or malformed record reads as an
// empty collection.
func (c *Collection[T]) Load(ctx context.Context) []T {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.log.WarnContext(ctx, "Failed to read collection, starting empty",
			logger.StringField("key", c.key), logger.ErrorField(err))
		return []T{}
	}
	if !found {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.WarnContext(ctx, "Stored collection is malformed, starting empty",
			logger.StringField("key", c.key), logger.ErrorField(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save replaces the stored collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Put(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}
