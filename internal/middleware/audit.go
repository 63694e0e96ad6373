package middleware

import (
	"net/http"
	"time"

	"shopdesk/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs each request with method, path, status, latency and request id.
// Mutating requests also carry the caller so the log doubles as an audit trail.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the response before the status is read
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			var event *zerolog.Event
			switch {
			case res.Status >= http.StatusInternalServerError:
				event = log.Error()
			case res.Status >= http.StatusBadRequest:
				event = log.Warn()
			default:
				event = log.Info()
			}

			event = event.
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start))

			if isMutating(req.Method) {
				if p, ok := common.GetPrincipalFromContext(req.Context()); ok {
					event = event.Str("subject", p.Subject).Str("role", p.Role)
				}
			}
			event.Msg("request")
			return nil
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
