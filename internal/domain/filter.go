package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/swaply-web/internal/validation"
)

const (
	// DefaultLimit caps browse, category and city grids.
	DefaultLimit = 100
	// SimilarLimit is the number of similar listings on a detail page.
	SimilarLimit = 6
	// SimilarMinSameCity is the minimum same-city hits before falling back
	// to the latest listings.
	SimilarMinSameCity = 3
)

// Filter selects listings. Empty fields do not filter.
type Filter struct {
	// Category is a slug ("home-furniture"), dashes match spaces.
	Category string `validate:"omitempty,max=64"`
	// City is compared case-insensitively for equality.
	City string `validate:"omitempty,max=64"`
	// Query is matched against title and description.
	Query     string `validate:"omitempty,max=100"`
	ExcludeID string `validate:"omitempty,max=128"`
	Limit     int    `validate:"gte=0,lte=100"`
}

// Normalize trims the inputs and applies the default limit, then validates.
func (f Filter) Normalize() (Filter, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.City = strings.TrimSpace(f.City)
	f.Query = strings.TrimSpace(f.Query)
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if err := validation.Struct(f); err != nil {
		return f, fmt.Errorf("invalid listing filter: %w", err)
	}
	return f, nil
}

// CategoryPattern is the substring a category slug matches against.
func (f Filter) CategoryPattern() string {
	return strings.ReplaceAll(f.Category, "-", " ")
}

// Matches applies the filter to one listing. Stores that cannot push the
// filter down to their backend use it in process.
func (f Filter) Matches(l *Listing) bool {
	if l == nil {
		return false
	}
	if f.ExcludeID != "" && l.ID == f.ExcludeID {
		return false
	}
	if f.Category != "" && !containsFold(l.Category, f.CategoryPattern()) {
		return false
	}
	if f.City != "" && !strings.EqualFold(strings.TrimSpace(l.City), f.City) {
		return false
	}
	if f.Query != "" && !containsFold(l.Title, f.Query) && !containsFold(l.Description, f.Query) {
		return false
	}
	return true
}

// Apply filters, sorts newest first and truncates to the limit.
func (f Filter) Apply(all []*Listing) []*Listing {
	out := make([]*Listing, 0, len(all))
	for _, l := range all {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	SortNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// SortNewestFirst orders by creation time, id breaking ties.
func SortNewestFirst(listings []*Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
