package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/handlers"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(d.APIMiddleware...)

		api.Get("/handoff/{id}", handlers.HandoffDecision(d))
		api.Get("/reset-password/resolve", handlers.ResetPasswordResolve(d))

		api.Get("/auth/apple/callback", handlers.AuthProviderCallback(d))
		api.Post("/auth/apple/callback", handlers.AuthProviderCallbackPost(d))
	})
}
