package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/mw"
)

func init() { Register(registerOps) }

func registerOps(r chi.Router, d deps.Deps) {
	internal := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	internal.Get("/healthz", handlers.Healthz(d))
	internal.Get("/readyz", handlers.Readyz(d))
	internal.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/infra", handlers.Infra(d))
	internal.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
}
