package ports

import (
	"context"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// CreateCropInput carries a new listing. Zero values count as missing.
type CreateCropInput struct {
	CropType    string  `json:"crop_type"    validate:"required"`
	Quantity    float64 `json:"quantity"     validate:"required"`
	Price       float64 `json:"price"        validate:"required"`
	Location    string  `json:"location"     validate:"required"`
	HarvestDate string  `json:"harvest_date" validate:"required"`
}

// CropService is the farmer-facing listing use case.
type CropService interface {
	Create(ctx context.Context, p domain.Principal, in CreateCropInput) (*domain.Crop, error)
	Update(ctx context.Context, p domain.Principal, cropID string, patch domain.CropPatch) (*domain.Crop, error)
	List(ctx context.Context, p domain.Principal) ([]domain.Crop, error)
	Delete(ctx context.Context, p domain.Principal, cropID string) error
}

// MarketplaceService is the public, unauthenticated read path.
type MarketplaceService interface {
	Search(ctx context.Context, filter domain.MarketplaceFilter) ([]domain.MarketplaceListing, error)
}

// MarketplaceCache stores marketplace results under a generation counter.
// Bumping the generation makes every previously cached entry unreachable.
type MarketplaceCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, key string) ([]domain.MarketplaceListing, bool, error)
	Set(ctx context.Context, generation int64, key string, listings []domain.MarketplaceListing) error
	Invalidate(ctx context.Context) error
}
