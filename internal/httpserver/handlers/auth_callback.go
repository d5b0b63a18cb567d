package handlers

import (
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

// AuthProviderCallback terminates a browser-initiated provider callback with a
// neutral body. The payload is not inspected.
func AuthProviderCallback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

// AuthProviderCallbackPost sends a provider-initiated submission back home.
func AuthProviderCallbackPost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Logger.Debug("provider callback submission, redirecting home")
		noStore(w)
		w.Header().Set("Location", "/")
		w.WriteHeader(http.StatusFound)
	}
}

type authCallbackData struct {
	// AppURL is the no-script link, query only: fragments never reach the server.
	// Typed as template.URL so the custom scheme survives href sanitizing.
	AppURL template.URL
	// Base is what the page script appends the live query and fragment to.
	Base string
}

// AuthCallbackPage relays the OAuth redirect onto the app's login-callback
// scheme. The page script forwards query and fragment verbatim.
func AuthCallbackPage(d deps.Deps) http.HandlerFunc {
	links := d.Engine.Links()
	return func(w http.ResponseWriter, r *http.Request) {
		noStore(w)
		w.Header().Set("Referrer-Policy", "no-referrer")

		site := d.Content.Get()
		p := newPage(d, web.Meta{Title: "Opening " + site.Name + "…", NoIndex: true}, authCallbackData{
			AppURL: template.URL(links.LoginCallbackURL(r.URL.RawQuery, "")),
			Base:   links.LoginCallbackURL("", ""),
		})
		render(d, w, r, http.StatusOK, "auth_callback", p)
	}
}
