package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"stockvue/config"
	"stockvue/internal/dto"
	"stockvue/internal/repository"
	"stockvue/pkg/logger"
	"stockvue/pkg/utils"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const (
	MsgHistoricalFailed = "Stock symbol not found or no valid data available."
	MsgIntradayFailed   = "Stock symbol not found or no valid intraday data available."
)

type StockDataService interface {
	// NewSession opens a stock data view. Close it when the view goes away.
	NewSession() *StockDataSession
	// Lookup runs a one-shot fetch in a throwaway session.
	Lookup(ctx context.Context, symbol string) (dto.StockDataState, error)
	// BuildStock fetches the history of symbol and shapes it as a watchlist entry.
	BuildStock(ctx context.Context, symbol string) (dto.Stock, error)
}

type stockDataService struct {
	cfg       *config.Config
	log       *logger.Logger
	repo      repository.StockAPIRepository
	scheduler *cron.Cron
}

// NewStockDataService shares scheduler between all sessions for their
// intraday refresh entries. The caller starts and stops it.
func NewStockDataService(cfg *config.Config, log *logger.Logger, repo repository.StockAPIRepository, scheduler *cron.Cron) StockDataService {
	return &stockDataService{
		cfg:       cfg,
		log:       log,
		repo:      repo,
		scheduler: scheduler,
	}
}

func (s *stockDataService) NewSession() *StockDataSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &StockDataSession{
		log:          s.log,
		repo:         s.repo,
		scheduler:    s.scheduler,
		interval:     s.cfg.StockData.RefreshInterval,
		discardStale: s.cfg.StockData.DiscardStaleResponses,
		ctx:          ctx,
		cancel:       cancel,
		state: dto.StockDataState{
			ChartData: []dto.ChartPoint{},
			Intraday:  []dto.IntradayPoint{},
		},
	}
}

func (s *stockDataService) Lookup(ctx context.Context, symbol string) (dto.StockDataState, error) {
	session := s.NewSession()
	defer session.Close()
	return session.Fetch(ctx, symbol)
}

func (s *stockDataService) BuildStock(ctx context.Context, symbol string) (dto.Stock, error) {
	resp, err := s.repo.GetHistorical(ctx, symbol)
	if err != nil {
		return dto.Stock{}, err
	}
	chart, err := FormatHistory(resp.History)
	if err != nil {
		return dto.Stock{}, err
	}
	return dto.Stock{
		Symbol:    symbol,
		ChartData: chart,
		StockInfo: dto.StockInfo{Name: resp.Name, Sector: resp.Sector, Industry: resp.Industry},
	}, nil
}

// StockDataSession is the state behind one stock data view: the history
// chart and info of the requested symbol plus its intraday quotes.
type StockDataSession struct {
	log          *logger.Logger
	repo         repository.StockAPIRepository
	scheduler    *cron.Cron
	interval     time.Duration
	discardStale bool

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	state          dto.StockDataState
	intradaySymbol string
	historicalSeq  uint64
	intradaySeq    uint64
	entryID        cron.EntryID
	refreshing     bool
	closed         bool
	onUpdate       []func(dto.StockDataState)
}

// OnUpdate registers fn to run after every applied response.
func (s *StockDataSession) OnUpdate(fn func(dto.StockDataState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = append(s.onUpdate, fn)
}

// Fetch requests history and intraday quotes for symbol concurrently. The
// returned error is the first fetch failure; the state is returned either way.
func (s *StockDataSession) Fetch(ctx context.Context, symbol string) (dto.StockDataState, error) {
	ctx, stop := s.bind(ctx)
	defer stop()

	s.mu.Lock()
	s.state.Symbol = symbol
	s.historicalSeq++
	s.intradaySeq++
	hSeq, iSeq := s.historicalSeq, s.intradaySeq
	s.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error { return s.loadHistorical(ctx, symbol, hSeq) })
	g.Go(func() error { return s.loadIntraday(ctx, symbol, iSeq) })
	err := g.Wait()

	return s.State(), err
}

// RefreshIntraday re-fetches intraday quotes for the current symbol.
func (s *StockDataSession) RefreshIntraday(ctx context.Context) error {
	ctx, stop := s.bind(ctx)
	defer stop()

	s.mu.Lock()
	symbol := s.state.Symbol
	if symbol == "" || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.intradaySeq++
	seq := s.intradaySeq
	s.mu.Unlock()

	return s.loadIntraday(ctx, symbol, seq)
}

// StartAutoRefresh re-fetches intraday quotes every refresh interval until Close.
func (s *StockDataSession) StartAutoRefresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("stock data session is closed")
	}
	if s.refreshing {
		return nil
	}

	id, err := s.scheduler.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.interval)
		defer cancel()
		if err := s.RefreshIntraday(ctx); err != nil {
			s.log.DebugContext(ctx, "Intraday refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule intraday refresh: %w", err)
	}
	s.entryID = id
	s.refreshing = true
	return nil
}

// Close stops the refresh timer and abandons in-flight requests.
func (s *StockDataSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.refreshing {
		s.scheduler.Remove(s.entryID)
		s.refreshing = false
	}
	s.cancel()
}

// State returns a copy of the current view state.
func (s *StockDataSession) State() dto.StockDataState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ToStock shapes the current state as a watchlist entry.
func (s *StockDataSession) ToStock() dto.Stock {
	st := s.State()
	return dto.Stock{Symbol: st.Symbol, ChartData: st.ChartData, StockInfo: st.StockInfo}
}

func (s *StockDataSession) loadHistorical(ctx context.Context, symbol string, seq uint64) error {
	resp, err := s.repo.GetHistorical(ctx, symbol)
	var chart []dto.ChartPoint
	if err == nil {
		chart, err = FormatHistory(resp.History)
	}

	s.mu.Lock()
	if s.isStale(seq, s.historicalSeq) {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Discarding stale historical response", logger.StringField("symbol", symbol))
		return nil
	}
	if err != nil {
		s.state.Error = MsgHistoricalFailed
		s.mu.Unlock()
		s.log.WarnContext(ctx, "Failed to fetch historical data", logger.StringField("symbol", symbol), logger.ErrorField(err))
		s.notify()
		return err
	}

	s.state.ChartData = chart
	s.state.StockInfo = dto.StockInfo{Name: resp.Name, Sector: resp.Sector, Industry: resp.Industry}
	if s.intradaySymbol != symbol {
		s.state.Intraday = []dto.IntradayPoint{}
		s.intradaySymbol = ""
	}
	s.state.Error = ""
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *StockDataSession) loadIntraday(ctx context.Context, symbol string, seq uint64) error {
	quotes, err := s.repo.GetIntraday(ctx, symbol)

	s.mu.Lock()
	if s.isStale(seq, s.intradaySeq) {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Discarding stale intraday response", logger.StringField("symbol", symbol))
		return nil
	}
	if err != nil {
		s.state.Error = MsgIntradayFailed
		s.mu.Unlock()
		s.log.WarnContext(ctx, "Failed to fetch intraday data", logger.StringField("symbol", symbol), logger.ErrorField(err))
		s.notify()
		return err
	}

	s.state.Intraday = FormatIntraday(quotes)
	s.intradaySymbol = symbol
	s.state.Error = ""
	s.mu.Unlock()

	s.notify()
	return nil
}

// isStale must be called with s.mu held.
func (s *StockDataSession) isStale(seq, latest uint64) bool {
	return s.closed || (s.discardStale && seq != latest)
}

// bind ties ctx to the session lifetime.
func (s *StockDataSession) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *StockDataSession) snapshotLocked() dto.StockDataState {
	st := s.state
	st.ChartData = slices.Clone(s.state.ChartData)
	st.Intraday = slices.Clone(s.state.Intraday)
	return st
}

func (s *StockDataSession) notify() {
	s.mu.Lock()
	fns := slices.Clone(s.onUpdate)
	st := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// FormatHistory labels each close with its month and orders the points by
// month, keeping the server order within a month.
func FormatHistory(history []dto.HistoricalQuote) ([]dto.ChartPoint, error) {
	type dated struct {
		month time.Time
		point dto.ChartPoint
	}
	rows := make([]dated, 0, len(history))
	for _, h := range history {
		t, err := utils.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrFetchFailed, err)
		}
		rows = append(rows, dated{
			month: utils.MonthStart(t),
			point: dto.ChartPoint{Date: utils.MonthLabel(t), Close: h.Close},
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].month.Before(rows[j].month) })

	out := make([]dto.ChartPoint, len(rows))
	for i, r := range rows {
		out[i] = r.point
	}
	return out, nil
}

// FormatIntraday turns newest-first quotes into oldest-first chart points.
func FormatIntraday(quotes []dto.IntradayQuote) []dto.IntradayPoint {
	out := make([]dto.IntradayPoint, len(quotes))
	for i, q := range quotes {
		out[len(quotes)-1-i] = dto.IntradayPoint{Time: q.Time, Price: q.Price}
	}
	return out
}
