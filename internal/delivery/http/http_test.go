package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockvue/config"
	"stockvue/internal/dto"
	"stockvue/internal/repository"
	"stockvue/internal/service"
	"stockvue/pkg/cache"
	"stockvue/pkg/kvstore"
	"stockvue/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// remoteStub serves AAPL only; everything else is a 404.
func remoteStub(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/historical/AAPL":
		_, _ = w.Write([]byte(`{"history":[{"Date":"2024-02-01","Close":186.86},{"Date":"2024-01-02","Close":185.64}],"name":"Apple Inc.","sector":"Technology","industry":"Consumer Electronics"}`))
	case "/intraday/AAPL":
		_, _ = w.Write([]byte(`[{"Time":"10:01","Price":186.1},{"Time":"10:00","Price":186.0}]`))
	case "/predict/AAPL":
		_, _ = w.Write([]byte(`{"predictions":[{"predicted_close":190.5}],"original_data":[[185.6],[186.8]],"train_predict":[],"test_predict":[],"loss":[{"epoch":1,"loss":0.02}],"val_loss":[{"val_loss":0.03}],"train_rmse":1.2,"test_rmse":1.9}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown symbol"}`))
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	remote := httptest.NewServer(http.HandlerFunc(remoteStub))
	t.Cleanup(remote.Close)

	cfg := &config.Config{
		Remote:    config.Remote{BaseURL: remote.URL, Timeout: 5 * time.Second, MaxRequestPerMin: 6000},
		Cache:     config.Cache{PredictionExpiration: time.Hour},
		StockData: config.StockData{RefreshInterval: time.Minute, DiscardStaleResponses: true},
	}
	log := logger.NewNop()
	c := cache.NewCache(time.Minute, time.Minute)
	repo := repository.NewRepository(cfg, c, kvstore.NewMemoryStore(), log)
	svc := service.NewService(context.Background(), cfg, log, repo, c, cron.New())

	e := echo.New()
	NewHttpAPIHandler(context.Background(), e, goValidator.New(), svc, log).SetupRoutes()
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestWatchlist_AddListRemove(t *testing.T) {
	e := newTestServer(t)

	code, env := do(t, e, http.MethodPost, "/api/v1/watchlist", `{"symbol":" aapl "}`)
	require.Equal(t, http.StatusCreated, code)

	var stocks []dto.Stock
	require.NoError(t, json.Unmarshal(env.Data, &stocks))
	require.Len(t, stocks, 1)
	assert.Equal(t, "AAPL", stocks[0].Symbol)
	assert.Equal(t, "Apple Inc.", stocks[0].StockInfo.Name)
	assert.Equal(t, []dto.ChartPoint{{Date: "Jan 2024", Close: 185.64}, {Date: "Feb 2024", Close: 186.86}}, stocks[0].ChartData)

	code, _ = do(t, e, http.MethodPost, "/api/v1/watchlist", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusOK, code, "duplicate add is a no-op")

	code, env = do(t, e, http.MethodGet, "/api/v1/watchlist?view=dashboard", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &stocks))
	assert.Len(t, stocks, 1)

	code, env = do(t, e, http.MethodDelete, "/api/v1/watchlist/aapl", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &stocks))
	assert.Empty(t, stocks)
}

func TestWatchlist_AddFailures(t *testing.T) {
	e := newTestServer(t)

	code, env := do(t, e, http.MethodPost, "/api/v1/watchlist", `{"symbol":"ZZZZ"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, service.MsgHistoricalFailed, env.Message)

	code, _ = do(t, e, http.MethodPost, "/api/v1/watchlist", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	_, env = do(t, e, http.MethodGet, "/api/v1/watchlist", "")
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestStocks_Lookup(t *testing.T) {
	e := newTestServer(t)

	code, env := do(t, e, http.MethodGet, "/api/v1/stocks/AAPL", "")
	require.Equal(t, http.StatusOK, code)

	var state dto.StockDataState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, "AAPL", state.Symbol)
	assert.Empty(t, state.Error)
	assert.Len(t, state.ChartData, 2)
	assert.Equal(t, []dto.IntradayPoint{{Time: "10:00", Price: 186.0}, {Time: "10:01", Price: 186.1}}, state.Intraday)

	code, env = do(t, e, http.MethodGet, "/api/v1/stocks/ZZZZ", "")
	require.Equal(t, http.StatusOK, code, "fetch failures are reported in the state")
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.NotEmpty(t, state.Error)
}

func TestPredictions_FetchSaveDelete(t *testing.T) {
	e := newTestServer(t)

	code, _ := do(t, e, http.MethodPost, "/api/v1/predictions/saved", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusNotFound, code, "nothing fetched yet")

	code, env := do(t, e, http.MethodGet, "/api/v1/predictions/AAPL", "")
	require.Equal(t, http.StatusOK, code)
	var chart dto.PredictionChart
	require.NoError(t, json.Unmarshal(env.Data, &chart))
	assert.Equal(t, "AAPL", chart.Symbol)
	assert.Len(t, chart.Series, 3)
	assert.Len(t, chart.Loss, 1)

	code, env = do(t, e, http.MethodPost, "/api/v1/predictions/saved", `{"symbol":"aapl"}`)
	require.Equal(t, http.StatusCreated, code)
	var saved []dto.SavedPredictionView
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "AAPL", saved[0].Symbol)

	code, _ = do(t, e, http.MethodDelete, "/api/v1/predictions/saved/x", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, e, http.MethodDelete, "/api/v1/predictions/saved/5", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Len(t, saved, 1, "out of range index is a no-op")

	code, env = do(t, e, http.MethodDelete, "/api/v1/predictions/saved/0", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Empty(t, saved)
}

func TestPredictions_FetchFailure(t *testing.T) {
	e := newTestServer(t)

	code, env := do(t, e, http.MethodGet, "/api/v1/predictions/ZZZZ", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, msgPredictionFailed, env.Message)
}

func TestBlankSymbolRejected(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "watchlist add", method: http.MethodPost, path: "/api/v1/watchlist", body: `{"symbol":"   "}`},
		{name: "save prediction", method: http.MethodPost, path: "/api/v1/predictions/saved", body: `{"symbol":"   "}`},
		{name: "stock lookup", method: http.MethodGet, path: "/api/v1/stocks/%20%20"},
		{name: "prediction fetch", method: http.MethodGet, path: "/api/v1/predictions/%20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, e, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "symbol is required", env.Message)
		})
	}

	_, env := do(t, e, http.MethodGet, "/api/v1/watchlist", "")
	assert.JSONEq(t, `[]`, string(env.Data))
}
