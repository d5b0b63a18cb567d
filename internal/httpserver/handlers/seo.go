package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// Robots allows everything and points crawlers to the sitemap.
func Robots(d deps.Deps) http.HandlerFunc {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\nHost: %s\n", d.SiteURL, d.SiteURL)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write([]byte(body))
	}
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapEntry struct {
	path       string
	changeFreq string
	priority   float64
}

var sitemapEntries = []sitemapEntry{
	{"/", "weekly", 1.0},
	{"/download", "monthly", 0.8},
	{"/app", "weekly", 0.9},
	{"/privacy", "yearly", 0.2},
	{"/terms", "yearly", 0.2},
}

func Sitemap(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lastMod := d.Now().UTC().Format("2006-01-02")
		set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
		for _, e := range sitemapEntries {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        d.SiteURL + e.path,
				LastMod:    lastMod,
				ChangeFreq: e.changeFreq,
				Priority:   e.priority,
			})
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write([]byte(xml.Header))
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(set); err != nil {
			d.Logger.Debug("failed to write sitemap", logger.Error(err))
		}
	}
}

type aasaDetail struct {
	AppID string   `json:"appID"`
	Paths []string `json:"paths"`
}

type aasaAppLinks struct {
	Apps    []string     `json:"apps"`
	Details []aasaDetail `json:"details"`
}

type aasaWebCredentials struct {
	Apps []string `json:"apps"`
}

type aasaDocument struct {
	AppLinks       aasaAppLinks       `json:"applinks"`
	WebCredentials aasaWebCredentials `json:"webcredentials"`
}

// AppleAppSiteAssociation serves the universal-link association document.
func AppleAppSiteAssociation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site := d.Content.Get()

		doc := aasaDocument{
			AppLinks:       aasaAppLinks{Apps: []string{}, Details: []aasaDetail{}},
			WebCredentials: aasaWebCredentials{Apps: []string{}},
		}
		for _, id := range site.AppleAppIDs {
			doc.AppLinks.Details = append(doc.AppLinks.Details, aasaDetail{AppID: id, Paths: site.ApplePaths})
			doc.WebCredentials.Apps = append(doc.WebCredentials.Apps, id)
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeJSON(w, http.StatusOK, doc)
	}
}
