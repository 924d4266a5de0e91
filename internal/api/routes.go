package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Options configures the middleware chain around the routes.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// RegisterRoutes attaches the API handlers to mux.
func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("POST /rank", handler.HandleRankUpload)
	mux.HandleFunc("POST /rank/text", handler.HandleRankText)
}

// NewServer wires routes and middleware into a single http.Handler.
func NewServer(logger *slog.Logger, handler *Handler, opts Options) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, handler)

	var h http.Handler = mux
	h = withTimeout(opts.RequestTimeout, h)
	h = withRateLimit(opts.RateLimitRPS, opts.RateLimitBurst, h)
	h = withLogging(logger, h)
	return withRequestID(h)
}
