package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Home(d))
	r.Get("/download", handlers.Download(d))
	r.Get("/download/qr.png", handlers.DownloadQR(d))
	r.Get("/app", handlers.StaticPage(d, "app", "Web App", "/app"))
	r.Get("/privacy", handlers.StaticPage(d, "privacy", "Privacy Policy", "/privacy"))
	r.Get("/terms", handlers.StaticPage(d, "terms", "Terms of Service", "/terms"))
	r.Get("/contact", handlers.StaticPage(d, "contact", "Contact", "/contact"))
	r.Get("/delete-account", handlers.StaticPage(d, "delete_account", "Delete Account", "/delete-account"))

	r.Get("/robots.txt", handlers.Robots(d))
	r.Get("/sitemap.xml", handlers.Sitemap(d))
	r.Get("/.well-known/apple-app-site-association", handlers.AppleAppSiteAssociation(d))
	r.Get("/apple-app-site-association", handlers.AppleAppSiteAssociation(d))

	r.Get("/og.png", handlers.OGImage(d))
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))
}
