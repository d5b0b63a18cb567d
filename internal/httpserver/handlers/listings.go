package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

const homeLatestLimit = 12

type homeData struct {
	Latest []*domain.Listing
}

// Home renders categories and the latest listings. A store failure degrades
// to an empty grid.
func Home(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		latest, err := d.Store.ListListings(r.Context(), domain.Filter{Limit: homeLatestLimit})
		if err != nil {
			d.Logger.Warn("failed to load latest listings",
				logger.String("store", d.Store.Name()),
				logger.Error(err))
		}

		p := newPage(d, web.Meta{Canonical: d.SiteURL + "/"}, homeData{Latest: latest})
		render(d, w, r, http.StatusOK, "home", p)
	}
}

type listingData struct {
	Item     *domain.Listing
	Pictures []string
	Similar  []*domain.Listing
	Decision handoff.Decision
}

// Listing renders one listing with its open-in-app controls.
func Listing(d deps.Deps) http.HandlerFunc {
	links := d.Engine.Links()
	return func(w http.ResponseWriter, r *http.Request) {
		id := urlParam(r, "id")

		item, err := d.Store.GetListing(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			renderNotFound(d, w, r, "Listing not found")
			return
		}
		if err != nil {
			d.Logger.Error("failed to load listing",
				logger.String("id", id),
				logger.Error(err))
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		similar, err := domain.SimilarListings(r.Context(), d.Store, item)
		if err != nil {
			d.Logger.Warn("failed to load similar listings",
				logger.String("id", id),
				logger.Error(err))
		}

		title := item.DisplayTitle() + " – " + domain.FormatPrice(item.Price)
		description := strings.Join(nonEmpty(item.City, "View on "+d.Content.Get().Name), " · ")

		p := newPage(d, web.Meta{
			Title:       title,
			Description: description,
			Canonical:   links.ListingURL(item.ID),
			Image:       absoluteURL(d.SiteURL, item.Cover()),
			OGType:      "article",
		}, listingData{
			Item:     item,
			Pictures: item.Pictures(),
			Similar:  similar,
			Decision: d.Engine.Decide(item.ID, r.UserAgent()),
		})

		w.Header().Set("Cache-Control", "private, max-age=60")
		w.Header().Set("Vary", "User-Agent")
		render(d, w, r, http.StatusOK, "listing", p)
	}
}

// ListingRedirect maps the legacy /listing?id=x form onto /l/x.
func ListingRedirect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			http.Redirect(w, r, "/browse", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/l/"+url.PathEscape(id), http.StatusFound)
	}
}

type browseData struct {
	Heading  string
	Filter   domain.Filter
	Listings []*domain.Listing
	Count    int
}

// Browse lists listings filtered by the category, city and q query parameters.
func Browse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := domain.Filter{
			Category: q.Get("category"),
			City:     q.Get("city"),
			Query:    q.Get("q"),
		}
		name := d.Content.Get().Name
		listGrid(d, w, r, f, "Browse listings", web.Meta{
			Title:     "Browse | " + name,
			Canonical: d.SiteURL + "/browse",
		})
	}
}

// Category lists the listings of one category slug.
func Category(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := urlParam(r, "slug")
		site := d.Content.Get()
		cat, _ := domain.LookupCategory(site.Categories, slug)

		heading := strings.TrimSpace(cat.Icon + " " + cat.Label)
		listGrid(d, w, r, domain.Filter{Category: slug}, heading, web.Meta{
			Title:     cat.Label + " | " + site.Name,
			Canonical: d.SiteURL + "/category/" + url.PathEscape(slug),
		})
	}
}

// City lists the listings of one city.
func City(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimSpace(urlParam(r, "name"))
		site := d.Content.Get()

		listGrid(d, w, r, domain.Filter{City: city}, "Listings in "+city, web.Meta{
			Title:     city + " | " + site.Name,
			Canonical: d.SiteURL + "/city/" + url.PathEscape(city),
		})
	}
}

func listGrid(d deps.Deps, w http.ResponseWriter, r *http.Request, f domain.Filter, heading string, meta web.Meta) {
	f, err := f.Normalize()
	if err != nil {
		d.Logger.Debug("rejected listing filter", logger.Error(err))
		p := newPage(d, web.Meta{Title: "Invalid search", NoIndex: true}, "Invalid search")
		render(d, w, r, http.StatusBadRequest, "not_found", p)
		return
	}

	listings, err := d.Store.ListListings(r.Context(), f)
	if err != nil {
		d.Logger.Error("failed to list listings",
			logger.String("store", d.Store.Name()),
			logger.Error(err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if f.Query != "" {
		listings = domain.RankByRelevance(f.Query, listings)
	}

	p := newPage(d, meta, browseData{
		Heading:  heading,
		Filter:   f,
		Listings: listings,
		Count:    len(listings),
	})
	w.Header().Set("Cache-Control", "public, max-age=60")
	render(d, w, r, http.StatusOK, "browse", p)
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
