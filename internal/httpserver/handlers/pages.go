package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

// StaticPage renders a content page that only needs the site content.
func StaticPage(d deps.Deps, name, title, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site := d.Content.Get()
		meta := web.Meta{Canonical: d.SiteURL + path}
		if title != "" {
			meta.Title = title + " | " + site.Name
		}
		w.Header().Set("Cache-Control", "public, max-age=300")
		render(d, w, r, http.StatusOK, name, newPage(d, meta, nil))
	}
}

type downloadData struct {
	DownloadURL string
}

func Download(d deps.Deps) http.HandlerFunc {
	links := d.Engine.Links()
	return func(w http.ResponseWriter, r *http.Request) {
		site := d.Content.Get()
		p := newPage(d, web.Meta{
			Title:     "Download | " + site.Name,
			Canonical: links.DownloadURL(),
		}, downloadData{DownloadURL: links.DownloadURL()})
		p.Banner = false

		w.Header().Set("Cache-Control", "public, max-age=300")
		render(d, w, r, http.StatusOK, "download", p)
	}
}

// DownloadQR serves a PNG QR code of the absolute download URL.
func DownloadQR(d deps.Deps) http.HandlerFunc {
	target := d.Engine.Links().DownloadURL()
	return func(w http.ResponseWriter, r *http.Request) {
		png, err := d.QR.PNG(target)
		if err != nil {
			d.Logger.Error("failed to render download qr code", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(png); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

// OGImage serves the default share image.
func OGImage(d deps.Deps) http.HandlerFunc {
	img, err := web.Asset("og.png")
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(img)
	}
}
