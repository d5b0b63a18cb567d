// Package postgres serves listings from the hosted Postgres listing table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrSnakeDoc/swaply-web/internal/connect"
	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// Config configures pgxpool
type Config struct {
	URL      string
	MaxConns int32
}

// Store is a read-mostly listing store on top of pgxpool.
type Store struct {
	pool *pgxpool.Pool
}

var newPool = pgxpool.NewWithConfig

// Open parses the URL, creates the pool and waits until the database answers.
func Open(ctx context.Context, cfg Config, retry connect.Options, log logger.Logger) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	addr := pcfg.ConnConfig.Host + ":" + strconv.Itoa(int(pcfg.ConnConfig.Port))
	if err := connect.WithRetry(ctx, "postgres", addr, retry, pool.Ping, log); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close closes the pool
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

const listingColumns = `id, coalesce(title, ''), coalesce(price::text, ''), coalesce(city, ''),
	coalesce(category, ''), coalesce(description, ''), coalesce(images, '{}'),
	coalesce(image_urls, '{}'), coalesce(created_at, 'epoch'::timestamptz)`

func (s *Store) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, nil
}

func (s *Store) ListListings(ctx context.Context, f domain.Filter) ([]*domain.Listing, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}

	sql, args := buildListQuery(f)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Listing, 0, f.Limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return out, nil
}

// SaveListingsMany upserts listings in one batch.
func (s *Store) SaveListingsMany(ctx context.Context, listings []*domain.Listing) error {
	batch := &pgx.Batch{}
	for _, l := range listings {
		var price any
		if f, ok := l.Price.Float(); ok {
			price = f
		}
		batch.Queue(`INSERT INTO listings (id, title, price, city, category, description, images, image_urls, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, price = EXCLUDED.price,
				city = EXCLUDED.city, category = EXCLUDED.category, description = EXCLUDED.description,
				images = EXCLUDED.images, image_urls = EXCLUDED.image_urls, created_at = EXCLUDED.created_at`,
			l.ID, l.Title, price, l.City, l.Category, l.Description, l.Images, l.ImageURLs, l.CreatedAt)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save listings: %w", err)
	}
	return nil
}

// Count returns the number of listings in the table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// buildListQuery pushes the filter down: ILIKE for category and text search,
// case-insensitive equality for the city.
func buildListQuery(f domain.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Category != "" {
		where = append(where, "category ILIKE "+arg("%"+escapeLike(f.CategoryPattern())+"%"))
	}
	if f.City != "" {
		where = append(where, "lower(trim(city)) = lower("+arg(f.City)+")")
	}
	if f.Query != "" {
		p := arg("%" + escapeLike(f.Query) + "%")
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if f.ExcludeID != "" {
		where = append(where, "id <> "+arg(f.ExcludeID))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(listingColumns)
	b.WriteString(" FROM listings")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC NULLS LAST, id LIMIT ")
	b.WriteString(arg(f.Limit))
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var (
		l     domain.Listing
		price string
	)
	if err := row.Scan(&l.ID, &l.Title, &price, &l.City, &l.Category, &l.Description,
		&l.Images, &l.ImageURLs, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Price = domain.Price(price)
	return &l, nil
}
