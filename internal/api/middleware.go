// internal/api/middleware.go
package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/metrics"
	"renaissance-story/internal/common/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// cors opens the endpoint to every origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a panic into a 500 {"error":"Unexpected server error"}.
func recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("handler panicked", map[string]interface{}{
						"path":      r.URL.Path,
						"panic":     fmt.Sprintf("%v", rec),
						"requestId": middleware.GetReqID(r.Context()),
					})
					errors.WriteError(w, errors.NewInternalError(fmt.Sprintf("%v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs and counts every request once it has been served.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)
			route := routePattern(r)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

			fields := map[string]interface{}{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    status,
				"duration":  duration.String(),
				"requestId": middleware.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				log.Warn("request served", fields)
				return
			}
			log.Debug("request served", fields)
		})
	}
}

// rateLimit throttles POSTs per client IP. Limiter failures let the request through.
func rateLimit(limiter ratelimit.Limiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			client := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), client)
			if err != nil {
				log.Warn("rate limiter unavailable", map[string]interface{}{"error": err})
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Info("rate limited", map[string]interface{}{"client": client})
				errors.WriteError(w, errors.NewRateLimitedError(client))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
