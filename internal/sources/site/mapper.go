package site

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/validation"
)

// Content is the validated, defaulted site content served to pages
type Content struct {
	Name         string
	Tagline      string
	Description  string
	ContactEmail string
	SupportEmail string
	ThemeColor   string

	AndroidAPK string
	GooglePlay string
	AppStore   string

	AppleAppIDs []string
	ApplePaths  []string

	Categories []domain.Category
	Cities     []string

	LoadedAt time.Time
}

// DefaultContent is served when no content file is configured
func DefaultContent() *Content {
	c, _ := NewMapper().MapContent(ContentConfig{})
	return c
}

// Mapper converts ContentConfig into Content
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapContent validates the config and fills every empty field with the
// production default.
func (m *Mapper) MapContent(config ContentConfig) (*Content, error) {
	if err := validation.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid site content: %w", err)
	}

	c := &Content{
		Name:         orDefault(config.Site.Name, "Swaply"),
		Tagline:      orDefault(config.Site.Tagline, "Trade what you have for what you need."),
		Description:  orDefault(config.Site.Description, "Simple bartering: post, match, and swap, fast and friendly."),
		ContactEmail: orDefault(config.Site.ContactEmail, "swaply@swaply.cc"),
		SupportEmail: orDefault(config.Site.SupportEmail, "support@swaply.cc"),
		ThemeColor:   orDefault(config.Site.ThemeColor, "#2d6fe6"),
		AndroidAPK:   orDefault(config.Download.AndroidAPK, "/download/swaply-latest.apk"),
		GooglePlay:   config.Download.GooglePlay,
		AppStore:     config.Download.AppStore,
		AppleAppIDs:  config.Apple.AppIDs,
		ApplePaths:   config.Apple.Paths,
		Categories:   config.Categories,
		Cities:       cleanCities(config.Cities),
		LoadedAt:     time.Now(),
	}

	if len(c.ApplePaths) == 0 {
		c.ApplePaths = []string{"/l/*", "/auth/callback*", "/reset-password*"}
	}
	if len(c.Categories) == 0 {
		c.Categories = domain.DefaultCategories
	}
	if len(c.Cities) == 0 {
		c.Cities = domain.DefaultCities
	}

	for _, cat := range c.Categories {
		if cat.Slug == "" || cat.Label == "" {
			return nil, fmt.Errorf("invalid site content: category needs slug and label (%+v)", cat)
		}
	}

	return c, nil
}

// MapListings checks seed listings and defaults their creation time
func (m *Mapper) MapListings(config SeedConfig) ([]*domain.Listing, error) {
	now := time.Now()
	out := make([]*domain.Listing, 0, len(config.Listings))
	seen := make(map[string]bool, len(config.Listings))

	for i, l := range config.Listings {
		if l == nil || strings.TrimSpace(l.ID) == "" {
			return nil, fmt.Errorf("seed listing #%d has no id", i)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("seed listing %s is duplicated", l.ID)
		}
		seen[l.ID] = true
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		out = append(out, l)
	}
	return out, nil
}

func cleanCities(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
