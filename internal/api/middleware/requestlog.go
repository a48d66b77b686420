package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// quietPaths are probe endpoints whose repeated successes are logged once.
var quietPaths = map[string]struct{}{
	healthPath: {},
}

// RequestLog returns Echo middleware that logs one structured line per
// request; failed requests log at WARN. A request
// id is taken from X-Request-ID or generated, and echoed back.
//
// For probe paths only the first success is logged; failures always are.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map // path -> struct{}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			path := c.Request().URL.Path

			if _, quiet := quietPaths[path]; quiet && status < http.StatusBadRequest {
				if _, loaded := seen.LoadOrStore(path, struct{}{}); loaded {
					return nil
				}
			}

			level := slog.LevelInfo
			if status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"bytes_out", c.Response().Size,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return nil
		}
	}
}

// RequestID returns the id RequestLog assigned to the request, if any.
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
