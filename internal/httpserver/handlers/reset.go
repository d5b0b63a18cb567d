package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/resetbridge"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

type resetPageData struct {
	View resetbridge.View
	// Fallback replaces a parsing View when the fragment cannot be resolved.
	Fallback *resetbridge.View
}

// ResetPassword renders the bridge page for the query string. Without query
// parameters the page starts in the parsing state and the script resolves the
// fragment through ResetPasswordResolve.
func ResetPassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)
		w.Header().Set("Referrer-Policy", "no-referrer")

		acceptLanguage := r.Header.Get("Accept-Language")
		query := r.URL.Query()

		var data resetPageData
		if len(query) == 0 {
			data.View = d.Bridge.Parsing(acceptLanguage)
			fallback := d.Bridge.Unresolved(r.UserAgent(), acceptLanguage)
			data.Fallback = &fallback
		} else {
			data.View = d.Bridge.Resolve(resetbridge.ParseParams(query, ""), r.UserAgent(), acceptLanguage)
		}

		p := newPage(d, web.Meta{Title: data.View.Title, NoIndex: true}, data)
		render(d, w, r, http.StatusOK, "reset_password", p)
	}
}

// ResetPasswordResolve returns the bridge view for the query string plus the
// fragment forwarded by the page in the "fragment" parameter.
func ResetPasswordResolve(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)

		query := r.URL.Query()
		fragment := query.Get("fragment")
		query.Del("fragment")

		view := d.Bridge.Resolve(resetbridge.ParseParams(query, fragment), r.UserAgent(), r.Header.Get("Accept-Language"))
		writeJSON(w, http.StatusOK, view)
	}
}
