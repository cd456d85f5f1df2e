package http

import (
	"context"
	"errors"
	"net/http"

	"stockvue/internal/dto"
	"stockvue/internal/repository"
	"stockvue/internal/service"
	"stockvue/pkg/logger"
	"stockvue/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	log       *logger.Logger
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service, log *logger.Logger) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		log:       log,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	v1 := base.Group("/v1")
	h.SetupWatchlist(v1)
	h.SetupStocks(v1)
	h.SetupPredictions(v1)
}

// bindAndValidate decodes the request body into req and validates it.
func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) *dto.BaseResponse {
	if err := c.Bind(req); err != nil {
		return dto.NewBadRequestResponse("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return dto.NewBadRequestResponse(err.Error())
	}
	return nil
}

// normalizeSymbol rejects input that is blank once normalized.
func normalizeSymbol(raw string) (string, *dto.BaseResponse) {
	symbol := utils.NormalizeSymbol(raw)
	if symbol == "" {
		return "", dto.NewBadRequestResponse("symbol is required")
	}
	return symbol, nil
}

func (h *HttpAPIHandler) fetchFailed(c echo.Context, message string, err error) error {
	code := http.StatusInternalServerError
	if errors.Is(err, repository.ErrFetchFailed) {
		code = http.StatusBadGateway
	}
	h.log.WarnContext(c.Request().Context(), message, logger.ErrorField(err))
	return c.JSON(code, dto.NewBaseResponse(code, message, nil))
}
