package middleware

import (
	"clinic/cmd/internal/metrics"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics records the latency of every request, labelled by route pattern.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
