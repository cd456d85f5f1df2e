package service

import (
	"context"

	"stockvue/config"
	"stockvue/internal/repository"
	"stockvue/pkg/cache"
	"stockvue/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Service struct {
	WatchlistService       WatchlistService
	SavedPredictionService SavedPredictionService
	StockDataService       StockDataService
	PredictionService      PredictionService
}

func NewService(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	scheduler *cron.Cron,
) *Service {
	watchlist := NewWatchlistService(ctx, log, repo.WatchlistRepo)
	saved := NewSavedPredictionService(ctx, log, repo.SavedPredictionsRepo)

	return &Service{
		WatchlistService:       watchlist,
		SavedPredictionService: saved,
		StockDataService:       NewStockDataService(cfg, log, repo.StockAPIRepo, scheduler),
		PredictionService:      NewPredictionService(cfg, log, repo.StockAPIRepo, inmemoryCache, saved),
	}
}
