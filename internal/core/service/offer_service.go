package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
	"github.com/Aaya-Elsharief/Agri-pal/internal/pkg/validate"
)

// OfferService implements offer submission and management.
type OfferService struct {
	offers ports.OfferRepository
	crops  ports.CropRepository
	users  ports.UserRepository
	log    zerolog.Logger
	now    clock
}

func NewOfferService(offers ports.OfferRepository, crops ports.CropRepository, users ports.UserRepository, log zerolog.Logger) *OfferService {
	return &OfferService{offers: offers, crops: crops, users: users, log: log, now: utcNow}
}

// Create records a trader's offer on an existing crop. The trader's current
// name and phone are copied onto the offer. The crop owner's role and any
// notion of availability are not checked.
func (s *OfferService) Create(ctx context.Context, p domain.Principal, cropID string, in ports.OfferInput) (*domain.Offer, error) {
	if err := p.Require(domain.RoleTrader, "make offers"); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.crops.FindByID(ctx, cropID); err != nil {
		return nil, err
	}
	trader, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		CropID:       cropID,
		TraderID:     p.UserID,
		OfferedPrice: in.OfferedPrice,
		TraderName:   trader.FullName,
		TraderPhone:  trader.Phone,
		CreatedAt:    s.now(),
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.log.Info().Str("offer_id", offer.ID).Str("crop_id", cropID).Str("trader_id", p.UserID).Msg("offer created")
	return offer, nil
}

// ListForCrop returns the offers on a crop the caller owns, best price first.
func (s *OfferService) ListForCrop(ctx context.Context, p domain.Principal, cropID string) ([]domain.Offer, error) {
	if err := p.Require(domain.RoleFarmer, "view offers on their crops"); err != nil {
		return nil, err
	}
	if _, err := s.crops.FindOwned(ctx, cropID, p.UserID); err != nil {
		return nil, err
	}
	return s.offers.ListByCrop(ctx, cropID)
}

func (s *OfferService) ListForTrader(ctx context.Context, p domain.Principal) ([]domain.TraderOffer, error) {
	if err := p.Require(domain.RoleTrader, "view their offers"); err != nil {
		return nil, err
	}
	return s.offers.ListByTrader(ctx, p.UserID)
}

func (s *OfferService) Update(ctx context.Context, p domain.Principal, offerID string, in ports.OfferInput) (*domain.Offer, error) {
	if err := p.Require(domain.RoleTrader, "update offers"); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	offer, err := s.offers.UpdatePriceOwned(ctx, offerID, p.UserID, in.OfferedPrice, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("offer_id", offerID).Str("trader_id", p.UserID).Msg("offer updated")
	return offer, nil
}

func (s *OfferService) Delete(ctx context.Context, p domain.Principal, offerID string) error {
	if err := p.Require(domain.RoleTrader, "delete offers"); err != nil {
		return err
	}
	if err := s.offers.DeleteOwned(ctx, offerID, p.UserID); err != nil {
		return err
	}

	s.log.Info().Str("offer_id", offerID).Str("trader_id", p.UserID).Msg("offer deleted")
	return nil
}
