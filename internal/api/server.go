// internal/api/server.go
package api

import (
	"net/http"

	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options wires the router's handlers and dependencies.
type Options struct {
	Apply   *ApplyHandler
	Pages   interface{ Routes(chi.Router) }
	Limiter ratelimit.Limiter
	Checks  map[string]Check
	Logger  logger.Logger
}

// NewRouter builds the HTTP surface: story pages, the apply endpoint and
// the operational endpoints.
func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(recoverer(log))

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(opts.Checks))
	r.Handle("/metrics", promhttp.Handler())

	if opts.Apply != nil {
		r.With(cors, rateLimit(opts.Limiter, log)).Handle("/api/apply", opts.Apply)
	}
	if opts.Pages != nil {
		opts.Pages.Routes(r)
	}

	return r
}
