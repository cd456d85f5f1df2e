package service

import (
	"context"
	"sync"
)

type ChangeOp string

const (
	OpAdd    ChangeOp = "add"
	OpRemove ChangeOp = "remove"
	OpSave   ChangeOp = "save"
	OpDelete ChangeOp = "delete"
)

// ChangeEvent tells subscribers that a collection was mutated and persisted.
type ChangeEvent struct {
	Collection string
	Op         ChangeOp
	Symbol     string
	Index      int
}

// CollectionStore loads and saves one whole collection.
type CollectionStore[T any] interface {
	Load(ctx context.Context) []T
	Save(ctx context.Context, items []T) error
	Key() string
}

type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(ChangeEvent)
}

func (n *notifier) subscribe(fn func(ChangeEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(ChangeEvent))
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) publish(ev ChangeEvent) {
	n.mu.Lock()
	subs := make([]func(ChangeEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
