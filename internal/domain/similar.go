package domain

import (
	"context"
	"fmt"
	"strings"
)

// SimilarListings returns up to SimilarLimit other listings: same city when
// at least SimilarMinSameCity exist, otherwise the latest listings.
func SimilarListings(ctx context.Context, store ListingStore, item *Listing) ([]*Listing, error) {
	base := Filter{ExcludeID: item.ID, Limit: SimilarLimit}

	if city := strings.TrimSpace(item.City); city != "" {
		f := base
		f.City = city
		sameCity, err := store.ListListings(ctx, f)
		if err == nil && len(sameCity) >= SimilarMinSameCity {
			return sameCity, nil
		}
	}

	latest, err := store.ListListings(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("similar listings for %s: %w", item.ID, err)
	}
	return latest, nil
}
