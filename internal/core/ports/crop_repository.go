package ports

import (
	"context"
	"time"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// CropRepository defines persistence operations for crop listings.
//
// The *Owned methods filter by (id AND owner) inside a single store call, so
// ownership is checked and applied atomically. A crop that exists but belongs
// to someone else is reported as domain.ErrCropNotFound.
type CropRepository interface {
	Create(ctx context.Context, c *domain.Crop) error
	FindByID(ctx context.Context, id string) (*domain.Crop, error)
	FindOwned(ctx context.Context, id, ownerID string) (*domain.Crop, error)
	// UpdateOwned applies patch and stamps updatedAt, returning the post-update record.
	UpdateOwned(ctx context.Context, id, ownerID string, patch domain.CropPatch, updatedAt time.Time) (*domain.Crop, error)
	// ListByOwner returns the owner's crops, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Crop, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
	// Marketplace returns crops matching filter joined with their farmer,
	// newest first. Crops whose owner record is missing are excluded.
	Marketplace(ctx context.Context, filter domain.MarketplaceFilter) ([]domain.MarketplaceListing, error)
}
