package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// ErrNotFound is returned by stores when a listing id does not exist.
var ErrNotFound = errors.New("listing not found")

// Listing is one marketplace item as served by the hosted listing store.
//
// The website never mutates listings: records are rendered as-is, with
// display fallbacks applied by the format helpers.
type Listing struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the store-assigned identifier, also used in /l/{id} and in the
	// app deep link.
	ID string `json:"id" yaml:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`

	// Price is kept as the store sent it: numeric text, free text or empty.
	Price Price `json:"price" yaml:"price"`

	// City is matched case-insensitively by the city filter.
	City string `json:"city,omitempty" yaml:"city"`

	// Category is a free-text category name, ex: "Home Furniture".
	Category string `json:"category,omitempty" yaml:"category"`

	// ImageURLs is the current image field, preferred over Images.
	ImageURLs []string `json:"image_urls,omitempty" yaml:"image_urls"`

	// Images is the legacy image field.
	Images []string `json:"images,omitempty" yaml:"images"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Price accepts both JSON numbers and strings.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// Float parses the price. ok is false for empty or non-numeric prices.
func (p Price) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(p), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ListingStore is the read side the site needs from the listing backend,
// plus bulk writes used to seed local backends.
type ListingStore interface {
	// GetListing returns ErrNotFound (wrapped) for unknown ids.
	GetListing(ctx context.Context, id string) (*Listing, error)
	// ListListings returns matching listings, newest first.
	ListListings(ctx context.Context, f Filter) ([]*Listing, error)
	SaveListingsMany(ctx context.Context, listings []*Listing) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Name() string
}
