// Package middleware provides Echo middleware for the seller-stats API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wondersell/seller-stats/internal/metrics"
)

const (
	healthPath  = "/healthz"
	metricsPath = "/metrics"
)

// Metrics returns Echo middleware that records request duration and status
// per route. Probe and scrape paths are not recorded; health probes only
// flip the up gauge.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			switch path {
			case metricsPath:
				return next(c)
			case healthPath:
				err := next(c)
				if status := c.Response().Status; status >= 200 && status < 300 {
					metrics.HealthzUp.Set(1)
				} else {
					metrics.HealthzUp.Set(0)
				}
				return err
			}

			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}
