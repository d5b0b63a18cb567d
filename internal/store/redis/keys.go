package redis

import "fmt"

const (
	// KeyPrefixListing is the prefix for listing keys
	KeyPrefixListing = "swaply:listing:"
	// KeyRecentListings is the sorted set of listing IDs scored by creation time
	KeyRecentListings = "swaply:listings:recent"
)

// ListingKey returns the Redis key for a listing by ID
func ListingKey(id string) string {
	return KeyPrefixListing + id
}

// RecentListingsKey returns the key for the creation-ordered index
func RecentListingsKey() string {
	return KeyRecentListings
}

// ExtractListingID extracts the listing ID from a Redis key
func ExtractListingID(key string) (string, error) {
	if len(key) <= len(KeyPrefixListing) || key[:len(KeyPrefixListing)] != KeyPrefixListing {
		return "", fmt.Errorf("invalid listing key: %s", key)
	}
	return key[len(KeyPrefixListing):], nil
}
