package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
)

// HandoffDecision returns the open-in-app decision for the caller's user-agent.
func HandoffDecision(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := urlParam(r, "id")
		decision := d.Engine.Decide(id, r.UserAgent())

		w.Header().Set("Cache-Control", "private, no-store")
		w.Header().Set("Vary", "User-Agent")
		writeJSON(w, http.StatusOK, decision)
	}
}
