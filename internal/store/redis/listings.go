package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
)

// scanBatch bounds one MGET while walking the recent index.
const scanBatch = 200

// Store serves listings from Redis: one JSON value per listing plus a sorted
// set ordering IDs by creation time.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a new Redis store
func NewStore(client redis.UniversalClient) *Store {
	return &Store{
		client: client,
	}
}

func (s *Store) Name() string { return "redis" }

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetListing retrieves a listing from Redis by ID
func (s *Store) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := s.client.Get(ctx, ListingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("listing %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return decodeListing(data)
}

// ListListings walks the recent index newest first and filters in process
// until the limit is reached.
func (s *Store) ListListings(ctx context.Context, f domain.Filter) ([]*domain.Listing, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Listing, 0, f.Limit)
	for start := int64(0); ; start += scanBatch {
		ids, err := s.client.ZRevRange(ctx, RecentListingsKey(), start, start+scanBatch-1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read recent listings: %w", err)
		}
		if len(ids) == 0 {
			return out, nil
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = ListingKey(id)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get listings: %w", err)
		}

		for _, v := range values {
			raw, ok := v.(string)
			if !ok {
				// index entry without a value
				continue
			}
			l, err := decodeListing([]byte(raw))
			if err != nil {
				continue
			}
			if f.Matches(l) {
				out = append(out, l)
				if len(out) == f.Limit {
					return out, nil
				}
			}
		}

		if len(ids) < scanBatch {
			return out, nil
		}
	}
}

// SaveListingsMany stores multiple listings in Redis (bulk operation)
func (s *Store) SaveListingsMany(ctx context.Context, listings []*domain.Listing) error {
	pipe := s.client.Pipeline()

	for _, l := range listings {
		data, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("failed to marshal listing %s: %w", l.ID, err)
		}

		pipe.Set(ctx, ListingKey(l.ID), data, 0)
		pipe.ZAdd(ctx, RecentListingsKey(), redis.Z{
			Score:  float64(l.CreatedAt.UnixMilli()),
			Member: l.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save listings: %w", err)
	}

	return nil
}

// DeleteListing removes a listing and its index entry
func (s *Store) DeleteListing(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, ListingKey(id))
	pipe.ZRem(ctx, RecentListingsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// Count returns the number of indexed listings
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, RecentListingsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

func decodeListing(data []byte) (*domain.Listing, error) {
	var l domain.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}
	return &l, nil
}
