package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Readyz reports ready once the listing store answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed",
				logger.String("store", d.Store.Name()),
				logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Store: d.Store.Name(),
				Error: "store unavailable",
			})
			return
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Store: d.Store.Name()})
	}
}
