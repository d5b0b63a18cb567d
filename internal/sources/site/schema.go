package site

import "github.com/MrSnakeDoc/swaply-web/internal/domain"

// ContentConfig is the top-level structure of site.yaml
type ContentConfig struct {
	Site       SiteProps         `yaml:"site"`
	Download   DownloadProps     `yaml:"download"`
	Apple      AppleProps        `yaml:"apple"`
	Categories []domain.Category `yaml:"categories" validate:"dive"`
	Cities     []string          `yaml:"cities"`
}

// SiteProps are the branding and contact values shown on every page
type SiteProps struct {
	Name         string `yaml:"name"`
	Tagline      string `yaml:"tagline"`
	Description  string `yaml:"description"`
	ContactEmail string `yaml:"contact_email" validate:"omitempty,email"`
	SupportEmail string `yaml:"support_email" validate:"omitempty,email"`
	ThemeColor   string `yaml:"theme_color" validate:"omitempty,hexcolor"`
}

// DownloadProps are the store links. Empty means "coming soon".
type DownloadProps struct {
	AndroidAPK string `yaml:"android_apk" validate:"omitempty,uri"`
	GooglePlay string `yaml:"google_play" validate:"omitempty,url"`
	AppStore   string `yaml:"app_store" validate:"omitempty,url"`
}

// AppleProps feed the apple-app-site-association document
type AppleProps struct {
	AppIDs []string `yaml:"app_ids"`
	Paths  []string `yaml:"paths"`
}

// SeedConfig is the structure of the optional listings seed file
type SeedConfig struct {
	Listings []*domain.Listing `yaml:"listings"`
}
