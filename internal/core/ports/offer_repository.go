package ports

import (
	"context"
	"time"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// OfferRepository defines persistence operations for offers. As with crops,
// the *Owned methods filter by (id AND trader) in one call and report a
// mismatch as domain.ErrOfferNotFound.
type OfferRepository interface {
	Create(ctx context.Context, o *domain.Offer) error
	// ListByCrop returns offers on a crop, highest offered_price first.
	ListByCrop(ctx context.Context, cropID string) ([]domain.Offer, error)
	// ListByTrader returns the trader's offers joined with their crop, newest first.
	ListByTrader(ctx context.Context, traderID string) ([]domain.TraderOffer, error)
	UpdatePriceOwned(ctx context.Context, id, traderID string, price float64, updatedAt time.Time) (*domain.Offer, error)
	DeleteOwned(ctx context.Context, id, traderID string) error
}
