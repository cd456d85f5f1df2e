package http

import (
	"net/http"

	"stockvue/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	base.GET("/stocks/:symbol", h.getStockData)
}

// getStockData returns whatever the fetch produced; a partial failure is
// reported in the state's error field, not as an HTTP error.
func (h *HttpAPIHandler) getStockData(c echo.Context) error {
	symbol, resp := normalizeSymbol(c.Param("symbol"))
	if resp != nil {
		return c.JSON(resp.Code, resp)
	}

	state, _ := h.service.StockDataService.Lookup(c.Request().Context(), symbol)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", state))
}
