package handler

import "github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"

// --- Response envelopes ---

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type profileResponse struct {
	User *domain.User `json:"user"`
}

type cropResponse struct {
	Message string       `json:"message"`
	Crop    *domain.Crop `json:"crop"`
}

type cropsResponse struct {
	Crops []domain.Crop `json:"crops"`
}

type marketplaceResponse struct {
	Crops []domain.MarketplaceListing `json:"crops"`
}

type offerResponse struct {
	Message string        `json:"message"`
	Offer   *domain.Offer `json:"offer"`
}

type offersResponse struct {
	Offers []domain.Offer `json:"offers"`
}

type traderOffersResponse struct {
	Offers []domain.TraderOffer `json:"offers"`
}

type errorResponse struct {
	Error string `json:"error"`
}
