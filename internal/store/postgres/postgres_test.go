package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/swaply-web/internal/connect"
	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

func retryOpts() connect.Options {
	return connect.Options{
		ConnectTimeout: time.Second,
		RetryInterval:  10 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    200 * time.Millisecond,
	}
}

func TestOpen_ParseError(t *testing.T) {
	_, err := Open(context.Background(), Config{URL: "://bad"}, retryOpts(), logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse postgres url")
}

func TestOpen_NewPoolError(t *testing.T) {
	orig := newPool
	t.Cleanup(func() { newPool = orig })
	newPool = func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	}

	_, err := Open(context.Background(), Config{URL: "postgres://u:p@localhost:5432/db"}, retryOpts(), logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestBuildListQuery(t *testing.T) {
	f, err := domain.Filter{Category: "home-furniture", City: "Harare", Query: "50%", ExcludeID: "x"}.Normalize()
	require.NoError(t, err)

	sql, args := buildListQuery(f)

	assert.Contains(t, sql, "category ILIKE $1")
	assert.Contains(t, sql, "lower(trim(city)) = lower($2)")
	assert.Contains(t, sql, "(title ILIKE $3 OR description ILIKE $3)")
	assert.Contains(t, sql, "id <> $4")
	assert.Contains(t, sql, "ORDER BY created_at DESC NULLS LAST, id LIMIT $5")
	assert.Equal(t, []any{"%home furniture%", "Harare", `%50\%%`, "x", 100}, args)
}

func TestBuildListQuery_NoFilter(t *testing.T) {
	f, err := domain.Filter{}.Normalize()
	require.NoError(t, err)

	sql, args := buildListQuery(f)
	assert.NotContains(t, sql, "WHERE")
	assert.Equal(t, []any{100}, args)
}

// Runs against a disposable database; the listings table is truncated.
func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("SWAPLY_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("SWAPLY_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, Config{URL: dsn}, retryOpts(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS listings (
		id text PRIMARY KEY, title text, price numeric, city text, category text,
		description text, images text[], image_urls text[], created_at timestamptz)`)
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, `TRUNCATE listings`)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.SaveListingsMany(ctx, []*domain.Listing{
		{ID: "a", Title: "Phone", Price: "120", City: "Harare", Category: "Phones", CreatedAt: now.Add(-time.Hour)},
		{ID: "b", Title: "Sofa", City: "harare", Category: "Home Furniture", CreatedAt: now},
	}))

	got, err := s.GetListing(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.Price("120"), got.Price)

	_, err = s.GetListing(ctx, "zzz")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := s.ListListings(ctx, domain.Filter{City: "HARARE"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
