// Package web holds the embedded page templates and static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/sources/site"
)

//go:embed templates static
var files embed.FS

// Meta is the per-page head: title, description and share card.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	OGType      string
	NoIndex     bool
}

// Page is the data every template receives. Data carries the page-specific part.
type Page struct {
	Site   *site.Content
	Meta   Meta
	Banner bool
	Year   int
	Data   any
}

// Renderer executes the page templates. Each page is parsed together with the
// shared layout; pages defining "document" render standalone.
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		now:   time.Now,
	}

	names, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	for _, file := range names {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(r.funcs()).ParseFS(files, "templates/layout.html", "templates/partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"price": domain.FormatPrice,
		"ago": func(t time.Time) string {
			return domain.TimeAgo(t, r.now())
		},
		"comingSoon": func(link string) bool {
			return link == "" || link == "#"
		},
	}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// HTML renders a page into a buffer first so a template error never leaves a
// half-written response.
func (r *Renderer) HTML(w http.ResponseWriter, status int, name string, data Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	if data.Year == 0 {
		data.Year = r.now().Year()
	}

	entry := "layout"
	if t.Lookup("document") != nil {
		entry = "document"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded /static assets.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Asset returns one embedded static file.
func Asset(name string) ([]byte, error) {
	return files.ReadFile("static/" + name)
}
