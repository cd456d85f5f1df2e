package http

import (
	"errors"
	"net/http"
	"strconv"

	"stockvue/internal/dto"
	"stockvue/internal/series"
	"stockvue/internal/service"

	"github.com/labstack/echo/v4"
)

const msgPredictionFailed = "Error fetching prediction data."

func (h *HttpAPIHandler) SetupPredictions(base *echo.Group) {
	g := base.Group("/predictions")
	g.GET("/saved", h.listSavedPredictions)
	g.POST("/saved", h.savePrediction)
	g.DELETE("/saved/:index", h.deleteSavedPrediction)
	g.GET("/:symbol", h.getPrediction)
}

func (h *HttpAPIHandler) getPrediction(c echo.Context) error {
	symbol, resp := normalizeSymbol(c.Param("symbol"))
	if resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.PredictionService.Fetch(c.Request().Context(), symbol)
	if err != nil {
		return h.fetchFailed(c, msgPredictionFailed, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", series.Chart(symbol, result)))
}

func (h *HttpAPIHandler) listSavedPredictions(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", h.service.PredictionService.SavedCharts()))
}

func (h *HttpAPIHandler) savePrediction(c echo.Context) error {
	req := new(dto.SavePredictionRequest)
	if resp := h.bindAndValidate(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	symbol, resp := normalizeSymbol(req.Symbol)
	if resp != nil {
		return c.JSON(resp.Code, resp)
	}

	_, err := h.service.PredictionService.SaveLatest(c.Request().Context(), symbol)
	if errors.Is(err, service.ErrNoPrediction) {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "Fetch predictions for this symbol first", nil))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Prediction saved", h.service.PredictionService.SavedCharts()))
}

func (h *HttpAPIHandler) deleteSavedPrediction(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		resp := dto.NewBadRequestResponse("index must be an integer")
		return c.JSON(resp.Code, resp)
	}
	h.service.SavedPredictionService.Delete(c.Request().Context(), index)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", h.service.PredictionService.SavedCharts()))
}
