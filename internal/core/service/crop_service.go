package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
	"github.com/Aaya-Elsharief/Agri-pal/internal/pkg/validate"
)

// CropService implements the farmer-only listing use cases.
type CropService struct {
	repo  ports.CropRepository
	cache ports.MarketplaceCache // optional
	log   zerolog.Logger
	now   clock
}

// NewCropService returns a CropService. cache may be nil.
func NewCropService(repo ports.CropRepository, cache ports.MarketplaceCache, log zerolog.Logger) *CropService {
	return &CropService{repo: repo, cache: cache, log: log, now: utcNow}
}

func (s *CropService) Create(ctx context.Context, p domain.Principal, in ports.CreateCropInput) (*domain.Crop, error) {
	if err := p.Require(domain.RoleFarmer, "create crops"); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	crop := &domain.Crop{
		CropType:    in.CropType,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Location:    in.Location,
		HarvestDate: in.HarvestDate,
		OwnerID:     p.UserID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, crop); err != nil {
		return nil, err
	}

	s.log.Info().Str("crop_id", crop.ID).Str("owner_id", p.UserID).Msg("crop created")
	s.invalidateMarketplace(ctx)
	return crop, nil
}

// Update applies the whitelisted fields of patch. An empty patch changes
// nothing, not even updated_at, but still requires ownership.
func (s *CropService) Update(ctx context.Context, p domain.Principal, cropID string, patch domain.CropPatch) (*domain.Crop, error) {
	if err := p.Require(domain.RoleFarmer, "update crops"); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return s.repo.FindOwned(ctx, cropID, p.UserID)
	}

	crop, err := s.repo.UpdateOwned(ctx, cropID, p.UserID, patch, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("crop_id", cropID).Str("owner_id", p.UserID).Msg("crop updated")
	s.invalidateMarketplace(ctx)
	return crop, nil
}

func (s *CropService) List(ctx context.Context, p domain.Principal) ([]domain.Crop, error) {
	if err := p.Require(domain.RoleFarmer, "view their crops"); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, p.UserID)
}

func (s *CropService) Delete(ctx context.Context, p domain.Principal, cropID string) error {
	if err := p.Require(domain.RoleFarmer, "delete crops"); err != nil {
		return err
	}
	if err := s.repo.DeleteOwned(ctx, cropID, p.UserID); err != nil {
		return err
	}

	s.log.Info().Str("crop_id", cropID).Str("owner_id", p.UserID).Msg("crop deleted")
	s.invalidateMarketplace(ctx)
	return nil
}

// invalidateMarketplace drops cached marketplace results. Failure is logged
// and otherwise ignored; entries still expire on their TTL.
func (s *CropService) invalidateMarketplace(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("marketplace cache invalidation failed")
	}
}
