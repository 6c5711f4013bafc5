package ports

import (
	"context"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// OfferInput carries the price of a new or updated offer.
type OfferInput struct {
	OfferedPrice float64 `json:"offered_price" validate:"required"`
}

// OfferService is the trader/farmer offer use case.
type OfferService interface {
	Create(ctx context.Context, p domain.Principal, cropID string, in OfferInput) (*domain.Offer, error)
	ListForCrop(ctx context.Context, p domain.Principal, cropID string) ([]domain.Offer, error)
	ListForTrader(ctx context.Context, p domain.Principal) ([]domain.TraderOffer, error)
	Update(ctx context.Context, p domain.Principal, offerID string, in OfferInput) (*domain.Offer, error)
	Delete(ctx context.Context, p domain.Principal, offerID string) error
}
