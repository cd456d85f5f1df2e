package service

import (
	"context"
	"errors"
	"sync"

	"stockvue/internal/dto"
	"stockvue/internal/model"
	"stockvue/internal/repository"
	"stockvue/pkg/kvstore"
	"stockvue/pkg/logger"
)

type fakeStockAPI struct {
	mu         sync.Mutex
	historical map[string]*dto.HistoricalResponse
	intraday   map[string][]dto.IntradayQuote
	prediction map[string]*dto.PredictionResult
	// gates block a call for symbol until closed
	historicalGate map[string]chan struct{}
	intradayGate   map[string]chan struct{}
	intradayCalls  int
}

func newFakeStockAPI() *fakeStockAPI {
	return &fakeStockAPI{
		historical:     map[string]*dto.HistoricalResponse{},
		intraday:       map[string][]dto.IntradayQuote{},
		prediction:     map[string]*dto.PredictionResult{},
		historicalGate: map[string]chan struct{}{},
		intradayGate:   map[string]chan struct{}{},
	}
}

func (f *fakeStockAPI) wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeStockAPI) GetHistorical(ctx context.Context, symbol string) (*dto.HistoricalResponse, error) {
	f.mu.Lock()
	gate := f.historicalGate[symbol]
	f.mu.Unlock()
	if err := f.wait(ctx, gate); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	resp, ok := f.historical[symbol]
	if !ok {
		return nil, errors.Join(repository.ErrFetchFailed, errors.New("unknown symbol"))
	}
	return resp, nil
}

func (f *fakeStockAPI) GetIntraday(ctx context.Context, symbol string) ([]dto.IntradayQuote, error) {
	f.mu.Lock()
	f.intradayCalls++
	gate := f.intradayGate[symbol]
	f.mu.Unlock()
	if err := f.wait(ctx, gate); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	quotes, ok := f.intraday[symbol]
	if !ok {
		return nil, errors.Join(repository.ErrFetchFailed, errors.New("no intraday"))
	}
	return quotes, nil
}

func (f *fakeStockAPI) GetPrediction(_ context.Context, symbol string) (*dto.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp, ok := f.prediction[symbol]
	if !ok {
		return nil, errors.Join(repository.ErrFetchFailed, errors.New("no prediction"))
	}
	return resp, nil
}

func (f *fakeStockAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.intradayCalls
}

func watchlistCollection(store kvstore.Store) *repository.Collection[dto.Stock] {
	return repository.NewCollection[dto.Stock](store, model.KeyWatchlist, logger.NewNop())
}

func savedCollection(store kvstore.Store) *repository.Collection[dto.PredictionSnapshot] {
	return repository.NewCollection[dto.PredictionSnapshot](store, model.KeySavedPredictions, logger.NewNop())
}

type brokenStore struct{ kvstore.Store }

func (brokenStore) Put(context.Context, string, []byte) error { return errors.New("quota exceeded") }

func stock(symbol string) dto.Stock {
	return dto.Stock{
		Symbol:    symbol,
		ChartData: []dto.ChartPoint{{Date: "Jan 2024", Close: 100}},
		StockInfo: dto.StockInfo{Name: symbol + " Inc."},
	}
}
