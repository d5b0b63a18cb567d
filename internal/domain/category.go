package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one browse entry point, shared with the app.
type Category struct {
	Slug  string `yaml:"slug" json:"slug"`
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon" json:"icon"`
}

// DefaultCategories mirror the app's category list.
var DefaultCategories = []Category{
	{Slug: "phones", Label: "Phones", Icon: "📱"},
	{Slug: "vehicles", Label: "Vehicles", Icon: "🚗"},
	{Slug: "property", Label: "Property", Icon: "🏢"},
	{Slug: "electronics", Label: "Electronics", Icon: "💻"},
	{Slug: "fashion", Label: "Fashion", Icon: "👗"},
	{Slug: "services", Label: "Services", Icon: "🔧"},
	{Slug: "jobs", Label: "Jobs", Icon: "💼"},
	{Slug: "jobs-seeking", Label: "Jobs Seeking", Icon: "🔍"},
	{Slug: "home-furniture", Label: "Home & Furniture", Icon: "🛋️"},
	{Slug: "beauty-care", Label: "Beauty & Care", Icon: "💄"},
	{Slug: "pets", Label: "Pets", Icon: "🐾"},
	{Slug: "baby-kids", Label: "Baby & Kids", Icon: "🧸"},
	{Slug: "repair", Label: "Repair", Icon: "🛠️"},
	{Slug: "leisure", Label: "Leisure", Icon: "🏃"},
	{Slug: "food-drinks", Label: "Food & Drinks", Icon: "🍔"},
}

// DefaultCities are the cities offered by the browse filter.
var DefaultCities = []string{
	"Harare", "Bulawayo", "Chitungwiza", "Mutare", "Gweru", "Kwekwe", "Kadoma",
	"Masvingo", "Chinhoyi", "Chegutu", "Bindura", "Marondera", "Redcliff",
}

var titleCaser = cases.Title(language.English)

// LookupCategory finds a category by slug. Unknown slugs get a label derived
// from the slug and no icon.
func LookupCategory(categories []Category, slug string) (Category, bool) {
	for _, c := range categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{Slug: slug, Label: titleCaser.String(strings.ReplaceAll(slug, "-", " "))}, false
}
