package service

import (
	"context"
	"errors"
	"fmt"

	"stockvue/config"
	"stockvue/internal/dto"
	"stockvue/internal/repository"
	"stockvue/internal/series"
	"stockvue/pkg/cache"
	"stockvue/pkg/logger"
)

// ErrNoPrediction is returned when saving a symbol that has no fetched result.
var ErrNoPrediction = errors.New("no prediction fetched for symbol")

const keyLatestPrediction = "prediction:%s"

type PredictionService interface {
	Fetch(ctx context.Context, symbol string) (*dto.PredictionResult, error)
	Latest(symbol string) (*dto.PredictionResult, bool)
	SaveLatest(ctx context.Context, symbol string) (dto.PredictionSnapshot, error)
	SavedCharts() []dto.SavedPredictionView
}

type predictionService struct {
	cfg   *config.Config
	log   *logger.Logger
	repo  repository.StockAPIRepository
	cache cache.Cache
	saved SavedPredictionService
}

func NewPredictionService(
	cfg *config.Config,
	log *logger.Logger,
	repo repository.StockAPIRepository,
	inmemoryCache cache.Cache,
	saved SavedPredictionService,
) PredictionService {
	return &predictionService{
		cfg:   cfg,
		log:   log,
		repo:  repo,
		cache: inmemoryCache,
		saved: saved,
	}
}

// Fetch asks the remote service for a forecast and remembers it as the
// latest result for symbol.
func (s *predictionService) Fetch(ctx context.Context, symbol string) (*dto.PredictionResult, error) {
	s.log.InfoContext(ctx, "Requesting prediction", logger.StringField("symbol", symbol))

	result, err := s.repo.GetPrediction(ctx, symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch prediction", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, err
	}
	result.Normalize()

	s.cache.Set(fmt.Sprintf(keyLatestPrediction, symbol), result, s.cfg.Cache.PredictionExpiration)
	return result, nil
}

func (s *predictionService) Latest(symbol string) (*dto.PredictionResult, bool) {
	return cache.GetTyped[*dto.PredictionResult](s.cache, fmt.Sprintf(keyLatestPrediction, symbol))
}

// SaveLatest appends a snapshot of the latest result for symbol to the
// saved predictions.
func (s *predictionService) SaveLatest(ctx context.Context, symbol string) (dto.PredictionSnapshot, error) {
	result, ok := s.Latest(symbol)
	if !ok {
		return dto.PredictionSnapshot{}, fmt.Errorf("%w: %s", ErrNoPrediction, symbol)
	}
	snapshot := result.Snapshot(symbol)
	s.saved.Save(ctx, snapshot)
	return snapshot, nil
}

// SavedCharts renders every saved snapshot, in insertion order.
func (s *predictionService) SavedCharts() []dto.SavedPredictionView {
	snapshots := s.saved.List()
	out := make([]dto.SavedPredictionView, len(snapshots))
	for i, snap := range snapshots {
		out[i] = dto.SavedPredictionView{Index: i, PredictionChart: series.SnapshotChart(snap)}
	}
	return out
}
