package repository

import (
	"stockvue/config"
	"stockvue/internal/dto"
	"stockvue/internal/model"
	"stockvue/pkg/cache"
	"stockvue/pkg/kvstore"
	"stockvue/pkg/logger"
)

type Repository struct {
	StockAPIRepo         StockAPIRepository
	WatchlistRepo        *Collection[dto.Stock]
	SavedPredictionsRepo *Collection[dto.PredictionSnapshot]
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, store kvstore.Store, log *logger.Logger) *Repository {
	return &Repository{
		StockAPIRepo:         NewStockAPIRepository(cfg, inmemoryCache, log),
		WatchlistRepo:        NewCollection[dto.Stock](store, model.KeyWatchlist, log),
		SavedPredictionsRepo: NewCollection[dto.PredictionSnapshot](store, model.KeySavedPredictions, log),
	}
}
