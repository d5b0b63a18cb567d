package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/handlers"
)

func init() { Register(registerListings) }

func registerListings(r chi.Router, d deps.Deps) {
	r.Get("/l/{id}", handlers.Listing(d))
	r.Get("/listing", handlers.ListingRedirect(d))
	r.Get("/browse", handlers.Browse(d))
	r.Get("/category/{slug}", handlers.Category(d))
	r.Get("/city/{name}", handlers.City(d))
}
