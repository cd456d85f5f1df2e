package middleware

import (
	"context"
	"time"

	"stockvue/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WithContext bounds every request with timeout and logs its outcome with a
// request-scoped logger stored in the request context.
func WithContext(log *logger.Logger, timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, cancel := context.WithTimeout(req.Context(), timeout)
			defer cancel()

			reqLog := log.With(
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
				logger.StringField("remote_ip", c.RealIP()),
			)
			c.SetRequest(req.WithContext(logger.NewContext(ctx, reqLog)))

			start := time.Now()
			err := next(c)
			reqLog.Debug("Request handled",
				logger.IntField("status", c.Response().Status),
				logger.Field("latency", time.Since(start)),
			)
			return err
		}
	}
}
