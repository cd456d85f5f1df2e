package http

import (
	"net/http"

	"stockvue/internal/dto"
	"stockvue/internal/service"
	"stockvue/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupWatchlist(base *echo.Group) {
	g := base.Group("/watchlist")
	g.GET("", h.listWatchlist)
	g.POST("", h.addToWatchlist)
	g.DELETE("/:symbol", h.removeFromWatchlist)
}

func (h *HttpAPIHandler) listWatchlist(c echo.Context) error {
	stocks := h.service.WatchlistService.List()
	if c.QueryParam("view") == "dashboard" {
		stocks = h.service.WatchlistService.Dashboard()
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", stocks))
}

func (h *HttpAPIHandler) addToWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.AddWatchlistRequest)
	if resp := h.bindAndValidate(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}
	symbol, resp := normalizeSymbol(req.Symbol)
	if resp != nil {
		return c.JSON(resp.Code, resp)
	}

	stock, err := h.service.StockDataService.BuildStock(ctx, symbol)
	if err != nil {
		return h.fetchFailed(c, service.MsgHistoricalFailed, err)
	}

	if !h.service.WatchlistService.Add(ctx, stock) {
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock already on watchlist", h.service.WatchlistService.List()))
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Stock added to watchlist", h.service.WatchlistService.List()))
}

func (h *HttpAPIHandler) removeFromWatchlist(c echo.Context) error {
	symbol := utils.NormalizeSymbol(c.Param("symbol"))
	h.service.WatchlistService.Remove(c.Request().Context(), symbol)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", h.service.WatchlistService.List()))
}
