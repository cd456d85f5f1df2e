package service

import (
	"context"
	"slices"
	"sync"

	"stockvue/internal/dto"
	"stockvue/pkg/logger"
)

type SavedPredictionService interface {
	Save(ctx context.Context, snapshot dto.PredictionSnapshot)
	Delete(ctx context.Context, index int) bool
	List() []dto.PredictionSnapshot
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

type savedPredictionService struct {
	log       *logger.Logger
	store     CollectionStore[dto.PredictionSnapshot]
	mu        sync.RWMutex
	snapshots []dto.PredictionSnapshot
	notifier
}

func NewSavedPredictionService(ctx context.Context, log *logger.Logger, store CollectionStore[dto.PredictionSnapshot]) SavedPredictionService {
	snapshots := store.Load(ctx)
	log.InfoContext(ctx, "Saved predictions loaded", logger.IntField("count", len(snapshots)))
	return &savedPredictionService{
		log:       log,
		store:     store,
		snapshots: snapshots,
	}
}

// Save appends snapshot. The same symbol may be saved any number of times.
func (s *savedPredictionService) Save(ctx context.Context, snapshot dto.PredictionSnapshot) {
	s.mu.Lock()
	s.snapshots = append(slices.Clip(s.snapshots), snapshot)
	index := len(s.snapshots) - 1
	s.persist(ctx)
	s.mu.Unlock()

	s.publish(ChangeEvent{Collection: s.store.Key(), Op: OpSave, Symbol: snapshot.Symbol, Index: index})
}

// Delete keeps every snapshot whose position is not index, so an index
// outside the list removes nothing. It reports whether a snapshot was removed.
func (s *savedPredictionService) Delete(ctx context.Context, index int) bool {
	s.mu.Lock()
	kept := make([]dto.PredictionSnapshot, 0, len(s.snapshots))
	var symbol string
	for i, snap := range s.snapshots {
		if i == index {
			symbol = snap.Symbol
			continue
		}
		kept = append(kept, snap)
	}
	removed := len(kept) != len(s.snapshots)
	s.snapshots = kept
	s.persist(ctx)
	s.mu.Unlock()

	if removed {
		s.publish(ChangeEvent{Collection: s.store.Key(), Op: OpDelete, Symbol: symbol, Index: index})
	}
	return removed
}

func (s *savedPredictionService) List() []dto.PredictionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshots)
}

func (s *savedPredictionService) Subscribe(fn func(ChangeEvent)) func() {
	return s.subscribe(fn)
}

func (s *savedPredictionService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.snapshots); err != nil {
		s.log.WarnContext(ctx, "Failed to persist saved predictions", logger.ErrorField(err))
	}
}
