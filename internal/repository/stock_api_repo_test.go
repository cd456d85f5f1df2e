package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stockvue/config"
	"stockvue/pkg/cache"
	"stockvue/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPIRepo(t *testing.T, handler http.HandlerFunc) StockAPIRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Remote: config.Remote{
		BaseURL:          srv.URL,
		Timeout:          5 * time.Second,
		MaxRequestPerMin: 6000,
	}}
	return NewStockAPIRepository(cfg, cache.NewCache(time.Minute, time.Minute), logger.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestGetHistorical(t *testing.T) {
	var calls atomic.Int32
	repo := newTestAPIRepo(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/historical/AAPL", r.URL.Path)
		writeJSON(w, http.StatusOK, `{
			"history":[{"Date":"2024-01-02T00:00:00","Close":185.64},{"Date":"2024-02-01T00:00:00","Close":186.86}],
			"name":"Apple Inc.","sector":"Technology","industry":"Consumer Electronics"}`)
	})

	got, err := repo.GetHistorical(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", got.Name)
	require.Len(t, got.History, 2)
	assert.Equal(t, 186.86, got.History[1].Close)

	_, err = repo.GetHistorical(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second call is served from cache")
}

func TestGetHistorical_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "error payload with 404", status: http.StatusNotFound, body: `{"error":"No trading data available for this stock."}`},
		{name: "error payload with 200", status: http.StatusOK, body: `{"error":"boom"}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "garbage body", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestAPIRepo(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			_, err := repo.GetHistorical(context.Background(), "ZZZZ")
			assert.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestGetHistorical_Unreachable(t *testing.T) {
	cfg := &config.Config{Remote: config.Remote{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, MaxRequestPerMin: 60}}
	repo := NewStockAPIRepository(cfg, cache.NewCache(time.Minute, time.Minute), logger.NewNop())

	_, err := repo.GetHistorical(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestGetIntraday(t *testing.T) {
	repo := newTestAPIRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/intraday/MSFT", r.URL.Path)
		writeJSON(w, http.StatusOK, `[{"Time":"2024-05-01 15:59:00","Price":394.9},{"Time":"2024-05-01 15:58:00","Price":394.5}]`)
	})

	got, err := repo.GetIntraday(context.Background(), "MSFT")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-01 15:59:00", got[0].Time)
	assert.Equal(t, 394.5, got[1].Price)
}

func TestGetIntraday_ErrorObject(t *testing.T) {
	repo := newTestAPIRepo(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"error":"No intraday data available for this stock."}`)
	})

	_, err := repo.GetIntraday(context.Background(), "MSFT")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestGetPrediction(t *testing.T) {
	repo := newTestAPIRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict/NVDA", r.URL.Path)
		writeJSON(w, http.StatusOK, `{
			"predictions":[{"date":"2024-06-01","predicted_close":120.5}],
			"original_data":[[100.0],[101.0]],
			"train_predict":[[100.5]],
			"test_predict":[],
			"loss":[{"epoch":1,"loss":0.02}],
			"val_loss":[{"epoch":1,"val_loss":0.03}],
			"train_rmse":1.2,
			"test_rmse":2.4}`)
	})

	got, err := repo.GetPrediction(context.Background(), "NVDA")
	require.NoError(t, err)
	require.Len(t, got.Predictions, 1)
	assert.Equal(t, 120.5, *got.Predictions[0].PredictedClose)
	require.Len(t, got.OriginalData, 2)
	assert.Equal(t, 101.0, *got.OriginalData[1][0])
	assert.NotNil(t, got.TestPredict)
	assert.Empty(t, got.TestPredict)
	assert.Equal(t, 1, *got.Loss[0].Epoch)
	assert.Equal(t, 0.03, *got.ValLoss[0].ValLoss)
	assert.Equal(t, 2.4, *got.TestRMSE)
}

func TestGetPrediction_ErrorPayload(t *testing.T) {
	repo := newTestAPIRepo(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"Not enough data to perform prediction."}`)
	})

	_, err := repo.GetPrediction(context.Background(), "NEW")
	assert.ErrorIs(t, err, ErrFetchFailed)
}
