package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Backend    string `json:"backend,omitempty"`
	Loaded     *int   `json:"loaded,omitempty"`
	Listings   *int64 `json:"listings,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Source     string `json:"source,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the listing store and site content status.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":   checkStore(r.Context(), d),
			"content": contentStatus(d),
			"handoff": {
				OK:   d.Engine != nil,
				Mode: "scheme+intent",
			},
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Without a store, listing pages fail; handoff and reset still work
	if store, exists := components["store"]; exists && !store.OK {
		return "critical"
	}

	if content, exists := components["content"]; exists && !content.OK {
		return "degraded"
	}

	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.Store.Name(),
			Error:   "timeout",
		}
	}

	status := componentStatus{OK: true, Backend: d.Store.Name()}
	if n, err := d.Store.Count(ctx); err == nil {
		status.Listings = &n
	}
	return status
}

func contentStatus(d deps.Deps) componentStatus {
	site := d.Content.Get()
	categories := len(site.Categories)

	status := componentStatus{
		OK:         categories > 0,
		Loaded:     &categories,
		LastReload: site.LoadedAt.Format("2006-01-02 15:04:05"),
		Source:     "defaults",
	}

	if d.ReloadStatus != nil {
		rs := d.ReloadStatus()
		status.Source = rs.Source
		if rs.LastError != "" {
			status.OK = false
			status.Error = rs.LastError
		}
	}

	return status
}
