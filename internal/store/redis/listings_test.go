package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
)

// newTestStore needs a disposable Redis; the DB is flushed.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("SWAPLY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SWAPLY_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.FlushDB(ctx).Err())
	return NewStore(client)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.SaveListingsMany(ctx, []*domain.Listing{
		{ID: "a", Title: "Old phone", City: "Harare", Category: "Phones", Price: "20", CreatedAt: now.Add(-time.Hour)},
		{ID: "b", Title: "New phone", City: "Bulawayo", Category: "Phones", Price: "150", CreatedAt: now},
		{ID: "c", Title: "Sofa", City: "harare", Category: "Home Furniture", CreatedAt: now.Add(-2 * time.Hour)},
	}))

	got, err := s.GetListing(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "New phone", got.Title)
	assert.Equal(t, domain.Price("150"), got.Price)

	_, err = s.GetListing(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	all, err := s.ListListings(ctx, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ID)

	harare, err := s.ListListings(ctx, domain.Filter{City: "HARARE"})
	require.NoError(t, err)
	require.Len(t, harare, 2)
	assert.Equal(t, "a", harare[0].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, s.DeleteListing(ctx, "a"))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
