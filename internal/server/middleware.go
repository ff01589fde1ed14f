package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = echo.HeaderXRequestID

// requestID reuses the caller's X-Request-ID or generates one.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: RequestIDHeader,
	})
}

func requestIDOf(c echo.Context) string {
	return c.Response().Header().Get(RequestIDHeader)
}

// requestLogger writes one debug line per request once the response is
// known.
func requestLogger(logger swapi.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, values middleware.RequestLoggerValues) error {
			logger.Debug("HTTP request", map[string]interface{}{
				"request_id": values.RequestID,
				"method":     values.Method,
				"uri":        values.URI,
				"status":     values.Status,
				"duration":   values.Latency.String(),
			})

			return nil
		},
	})
}

// recovery turns a handler panic into a 500 and logs the stack.
func recovery(logger swapi.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Panic recovered", map[string]interface{}{
				"request_id": requestIDOf(c),
				"error":      err.Error(),
				"stack":      string(stack),
			})

			return fmt.Errorf("panic: %w", err)
		},
	})
}

// exactURL rejects a request whose URL carries a query, even an empty one,
// so "/stats?x=1" does not reach /stats.
func exactURL(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if u := c.Request().URL; u.RawQuery != "" || u.ForceQuery {
			return echo.ErrNotFound
		}

		return next(c)
	}
}
