package service

import (
	"context"
	"slices"
	"sync"

	"stockvue/internal/dto"
	"stockvue/pkg/logger"
)

// DashboardLimit is how many watchlist entries the dashboard shows.
const DashboardLimit = 9

type WatchlistService interface {
	Add(ctx context.Context, stock dto.Stock) bool
	Remove(ctx context.Context, symbol string) bool
	List() []dto.Stock
	Dashboard() []dto.Stock
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

type watchlistService struct {
	log    *logger.Logger
	store  CollectionStore[dto.Stock]
	mu     sync.RWMutex
	stocks []dto.Stock
	notifier
}

// NewWatchlistService loads the persisted watchlist; an unreadable record
// starts an empty one.
func NewWatchlistService(ctx context.Context, log *logger.Logger, store CollectionStore[dto.Stock]) WatchlistService {
	stocks := store.Load(ctx)
	log.InfoContext(ctx, "Watchlist loaded", logger.IntField("count", len(stocks)))
	return &watchlistService{
		log:    log,
		store:  store,
		stocks: stocks,
	}
}

// Add appends stock unless its symbol is already present; the first stored
// entry wins. It reports whether the watchlist changed.
func (s *watchlistService) Add(ctx context.Context, stock dto.Stock) bool {
	s.mu.Lock()
	if slices.ContainsFunc(s.stocks, func(st dto.Stock) bool { return st.Symbol == stock.Symbol }) {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Stock already on watchlist", logger.StringField("symbol", stock.Symbol))
		return false
	}
	s.stocks = append(slices.Clip(s.stocks), stock)
	s.persist(ctx)
	s.mu.Unlock()

	s.publish(ChangeEvent{Collection: s.store.Key(), Op: OpAdd, Symbol: stock.Symbol})
	return true
}

// Remove drops every entry with symbol. It reports whether anything was removed.
func (s *watchlistService) Remove(ctx context.Context, symbol string) bool {
	s.mu.Lock()
	kept := make([]dto.Stock, 0, len(s.stocks))
	for _, st := range s.stocks {
		if st.Symbol != symbol {
			kept = append(kept, st)
		}
	}
	removed := len(kept) != len(s.stocks)
	s.stocks = kept
	s.persist(ctx)
	s.mu.Unlock()

	if removed {
		s.publish(ChangeEvent{Collection: s.store.Key(), Op: OpRemove, Symbol: symbol})
	}
	return removed
}

func (s *watchlistService) List() []dto.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.stocks)
}

func (s *watchlistService) Dashboard() []dto.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.stocks[:min(len(s.stocks), DashboardLimit)])
}

func (s *watchlistService) Subscribe(fn func(ChangeEvent)) func() {
	return s.subscribe(fn)
}

// persist must be called with s.mu held. Write failures only cost durability.
func (s *watchlistService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.stocks); err != nil {
		s.log.WarnContext(ctx, "Failed to persist watchlist", logger.ErrorField(err))
	}
}
