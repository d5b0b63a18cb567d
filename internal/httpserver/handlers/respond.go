package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// noStore disables every cache layer. Callback and reset responses carry
// one-time credentials and must never be replayed from a cache.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
}

func newPage(d deps.Deps, meta web.Meta, data any) web.Page {
	return web.Page{
		Site:   d.Content.Get(),
		Meta:   meta,
		Banner: true,
		Year:   d.Now().Year(),
		Data:   data,
	}
}

func render(d deps.Deps, w http.ResponseWriter, r *http.Request, status int, name string, p web.Page) {
	if err := d.Pages.HTML(w, status, name, p); err != nil {
		d.Logger.Error("failed to render page",
			logger.String("page", name),
			logger.String("path", r.URL.Path),
			logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func renderNotFound(d deps.Deps, w http.ResponseWriter, r *http.Request, title string) {
	site := d.Content.Get()
	p := newPage(d, web.Meta{Title: title + " | " + site.Name, NoIndex: true}, title)
	render(d, w, r, http.StatusNotFound, "not_found", p)
}

// absoluteURL prefixes site-relative paths with the public origin.
func absoluteURL(siteURL, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return siteURL + ref
}

// NotFound is the router-wide 404 page.
func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(d, w, r, "Page not found")
	}
}

// urlParam returns a decoded chi route parameter.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
