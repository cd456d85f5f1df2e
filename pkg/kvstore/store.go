// Package kvstore holds whole values under string keys. Callers own the
// encoding; a Put always replaces the previous value for the key.
package kvstore

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("kvstore: store is closed")

type Store interface {
	// Get returns the value for key. found is false when the key was never written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
