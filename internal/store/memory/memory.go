// Package memory keeps listings in process. It backs local development and
// tests, and is filled from the seed file at startup.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
)

// Store provides in-memory storage and lookup for listings
type Store struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing // ID -> Listing
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		listings: make(map[string]*domain.Listing),
	}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(context.Context) error { return nil }

// GetListing retrieves a listing by ID
func (s *Store) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %s: %w", id, domain.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

// ListListings filters a snapshot of all listings
func (s *Store) ListListings(_ context.Context, f domain.Filter) ([]*domain.Listing, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := make([]*domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		cp := *l
		all = append(all, &cp)
	}
	s.mu.RUnlock()

	return f.Apply(all), nil
}

// SaveListingsMany adds or replaces listings
func (s *Store) SaveListingsMany(_ context.Context, listings []*domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range listings {
		if l == nil || l.ID == "" {
			return fmt.Errorf("listing without id")
		}
		cp := *l
		s.listings[l.ID] = &cp
	}
	return nil
}

// Replace swaps the whole content
func (s *Store) Replace(listings []*domain.Listing) {
	next := make(map[string]*domain.Listing, len(listings))
	for _, l := range listings {
		cp := *l
		next[l.ID] = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = next
}

// Count returns the number of listings in the store
func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.listings)), nil
}
