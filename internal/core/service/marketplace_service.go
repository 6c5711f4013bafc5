package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
)

// MarketplaceService serves the public crop listing, optionally through a cache.
type MarketplaceService struct {
	repo  ports.CropRepository
	cache ports.MarketplaceCache // optional
	log   zerolog.Logger
}

// NewMarketplaceService returns a MarketplaceService. cache may be nil.
func NewMarketplaceService(repo ports.CropRepository, cache ports.MarketplaceCache, log zerolog.Logger) *MarketplaceService {
	return &MarketplaceService{repo: repo, cache: cache, log: log}
}

// Search returns every listing matching filter, newest first. Cache errors
// are logged and the store is queried directly.
func (s *MarketplaceService) Search(ctx context.Context, filter domain.MarketplaceFilter) ([]domain.MarketplaceListing, error) {
	if s.cache == nil {
		return s.repo.Marketplace(ctx, filter)
	}

	key := filter.Key()
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("marketplace cache unavailable")
		return s.repo.Marketplace(ctx, filter)
	}

	listings, hit, err := s.cache.Get(ctx, gen, key)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("key", key).Msg("marketplace cache read failed")
	case hit:
		s.log.Debug().Str("key", key).Msg("marketplace cache hit")
		return listings, nil
	}

	listings, err = s.repo.Marketplace(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Stored under the generation read before querying, so a concurrent
	// invalidation leaves this entry unreachable.
	if err := s.cache.Set(ctx, gen, key, listings); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("marketplace cache write failed")
	}
	return listings, nil
}
