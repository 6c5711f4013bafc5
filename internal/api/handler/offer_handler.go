package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Aaya-Elsharief/Agri-pal/internal/api/metrics"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
)

// OfferHandler handles HTTP requests for trader offers.
type OfferHandler struct {
	offers  ports.OfferService
	metrics *metrics.Metrics
}

func NewOfferHandler(offers ports.OfferService, m *metrics.Metrics) *OfferHandler {
	return &OfferHandler{offers: offers, metrics: m}
}

// Create submits a trader's offer on a crop.
//
// @Summary      Make an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Crop ID"
// @Param        body  body      ports.OfferInput  true  "Offered price"
// @Success      201   {object}  offerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/crops/{id}/offer [post]
func (h *OfferHandler) Create(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	if err := p.Require(domain.RoleTrader, "make offers"); err != nil {
		return err
	}

	var req ports.OfferInput
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	offer, err := h.offers.Create(c.Request().Context(), p, c.Param("id"), req)
	if err != nil {
		return err
	}

	h.metrics.OffersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, offerResponse{Message: "Offer submitted successfully", Offer: offer})
}

// ListForCrop returns the offers on one of the farmer's crops, best price first.
//
// @Summary      Offers on my crop
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Crop ID"
// @Success      200  {object}  offersResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/crops/{id}/offers [get]
func (h *OfferHandler) ListForCrop(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	offers, err := h.offers.ListForCrop(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offersResponse{Offers: nonNil(offers)})
}

// ListMine returns the authenticated trader's offers with their crops.
//
// @Summary      My offers
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  traderOffersResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/crops/offers [get]
func (h *OfferHandler) ListMine(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	offers, err := h.offers.ListForTrader(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, traderOffersResponse{Offers: nonNil(offers)})
}

// Update changes the price of one of the trader's offers.
//
// @Summary      Update an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Offer ID"
// @Param        body  body      ports.OfferInput  true  "New price"
// @Success      200   {object}  offerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/crops/offers/{id} [put]
func (h *OfferHandler) Update(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	if err := p.Require(domain.RoleTrader, "update offers"); err != nil {
		return err
	}

	var req ports.OfferInput
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	offer, err := h.offers.Update(c.Request().Context(), p, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offerResponse{Message: "Offer updated successfully", Offer: offer})
}

// Delete withdraws one of the trader's offers.
//
// @Summary      Withdraw an offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Offer ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/crops/offers/{id} [delete]
func (h *OfferHandler) Delete(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.offers.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Offer deleted successfully"})
}
