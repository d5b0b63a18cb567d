package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/handlers"
)

func init() { Register(registerBridge) }

// Pages that hand a visitor over to the app.
func registerBridge(r chi.Router, d deps.Deps) {
	r.Get("/auth/callback", handlers.AuthCallbackPage(d))
	r.Get("/reset-password", handlers.ResetPassword(d))
}
