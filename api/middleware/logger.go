package middleware

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// SetupLoggerMiddleware writes one access log line per request
func (mw *Middleware) SetupLoggerMiddleware() func(http.Handler) http.Handler {
	return gecho.Handlers.CreateLoggingMiddleware(mw.logger)
}
