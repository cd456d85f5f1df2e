package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"stockvue/config"
	"stockvue/internal/dto"
	"stockvue/pkg/cache"
	"stockvue/pkg/httpclient"
	"stockvue/pkg/logger"
	"stockvue/pkg/ratelimit"
)

// ErrFetchFailed is wrapped by every remote data failure: transport errors,
// non-2xx statuses, undecodable bodies and explicit error payloads.
var ErrFetchFailed = errors.New("fetch failed")

const (
	endpointHistorical = "historical"
	endpointIntraday   = "intraday"
	endpointPredict    = "predict"

	keyHistorical = "historical:%s"
)

// StockAPIRepository talks to the remote data and prediction service.
type StockAPIRepository interface {
	GetHistorical(ctx context.Context, symbol string) (*dto.HistoricalResponse, error)
	GetIntraday(ctx context.Context, symbol string) ([]dto.IntradayQuote, error)
	GetPrediction(ctx context.Context, symbol string) (*dto.PredictionResult, error)
}

type stockAPIRepository struct {
	httpClient httpclient.HTTPClient
	cache      cache.Cache
	limiters   *ratelimit.LimiterStore
	logger     *logger.Logger
}

func NewStockAPIRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) StockAPIRepository {
	return &stockAPIRepository{
		httpClient: httpclient.New(log, cfg.Remote.BaseURL, cfg.Remote.Timeout),
		cache:      inmemoryCache,
		limiters:   ratelimit.PerMinute(cfg.Remote.MaxRequestPerMin),
		logger:     log,
	}
}

func (r *stockAPIRepository) GetHistorical(ctx context.Context, symbol string) (*dto.HistoricalResponse, error) {
	cacheKey := fmt.Sprintf(keyHistorical, symbol)
	if cached, ok := cache.GetTyped[*dto.HistoricalResponse](r.cache, cacheKey); ok {
		return cached, nil
	}

	var resp dto.HistoricalResponse
	if err := r.get(ctx, endpointHistorical, symbol, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: historical %s: %s", ErrFetchFailed, symbol, resp.Error)
	}

	r.cache.Set(cacheKey, &resp, 0)
	return &resp, nil
}

func (r *stockAPIRepository) GetIntraday(ctx context.Context, symbol string) ([]dto.IntradayQuote, error) {
	var quotes []dto.IntradayQuote
	if err := r.get(ctx, endpointIntraday, symbol, &quotes); err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []dto.IntradayQuote{}
	}
	return quotes, nil
}

func (r *stockAPIRepository) GetPrediction(ctx context.Context, symbol string) (*dto.PredictionResult, error) {
	var resp dto.PredictionResult
	if err := r.get(ctx, endpointPredict, symbol, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: predict %s: %s", ErrFetchFailed, symbol, resp.Error)
	}
	return &resp, nil
}

func (r *stockAPIRepository) get(ctx context.Context, endpoint, symbol string, result interface{}) error {
	waited, err := r.limiters.Wait(ctx, endpoint)
	if waited {
		r.logger.WarnContext(ctx, "Remote service request limit reached, waited for a token",
			logger.StringField("endpoint", endpoint))
	}
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrFetchFailed, endpoint, symbol, err)
	}

	path := "/" + endpoint + "/" + url.PathEscape(symbol)
	resp, err := r.httpClient.Get(ctx, path, nil, nil, result)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrFetchFailed, endpoint, symbol, err)
	}

	if !resp.IsSuccess() {
		var errResp dto.ErrorResponse
		_ = json.Unmarshal(resp.Body, &errResp)
		r.logger.WarnContext(ctx, "Remote service returned non-OK status",
			logger.StringField("endpoint", endpoint),
			logger.StringField("symbol", symbol),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("error", errResp.Error))
		return fmt.Errorf("%w: %s %s: status %d", ErrFetchFailed, endpoint, symbol, resp.StatusCode)
	}
	return nil
}
