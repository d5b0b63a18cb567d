package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/sources/site"
)

// Seeder writes the listings of a seed file into the listing store on startup
type Seeder struct {
	loader *site.SeedLoader
	mapper *site.Mapper
	store  domain.ListingStore
	logger logger.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(seedFile string, store domain.ListingStore, log logger.Logger) *Seeder {
	return &Seeder{
		loader: site.NewSeedLoader(seedFile),
		mapper: site.NewMapper(),
		store:  store,
		logger: log,
	}
}

// Seed loads the seed file and saves its listings, returning how many were written
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	s.logger.Info("seeding listings", logger.String("store", s.store.Name()))

	config, err := s.loader.Load()
	if err != nil {
		return 0, err
	}

	listings, err := s.mapper.MapListings(config)
	if err != nil {
		return 0, fmt.Errorf("failed to map seed listings: %w", err)
	}

	if len(listings) == 0 {
		s.logger.Info("seed file has no listings")
		return 0, nil
	}

	if err := s.store.SaveListingsMany(ctx, listings); err != nil {
		return 0, fmt.Errorf("failed to save seed listings: %w", err)
	}

	s.logger.Info("seeded listings", logger.Int("count", len(listings)))

	return len(listings), nil
}
