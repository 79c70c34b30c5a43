package api

import (
	"context"
	"net/http"
	"time"

	"renaissance-story/internal/common/errors"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

func healthHandler(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// readyHandler runs every check; any failure answers 503 with the failing names.
func readyHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			errors.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"failed": failed,
			})
			return
		}
		errors.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
		})
	}
}
