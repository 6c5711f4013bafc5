package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Aaya-Elsharief/Agri-pal/internal/api/metrics"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
)

// CropHandler handles HTTP requests for crop listings and the public marketplace.
type CropHandler struct {
	crops       ports.CropService
	marketplace ports.MarketplaceService
	metrics     *metrics.Metrics
}

func NewCropHandler(crops ports.CropService, marketplace ports.MarketplaceService, m *metrics.Metrics) *CropHandler {
	return &CropHandler{crops: crops, marketplace: marketplace, metrics: m}
}

// Create lists a new crop for the authenticated farmer.
//
// @Summary      Create a crop listing
// @Tags         crops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateCropInput  true  "Crop details"
// @Success      201   {object}  cropResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/crops [post]
func (h *CropHandler) Create(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	// Role is checked before the body is read.
	if err := p.Require(domain.RoleFarmer, "create crops"); err != nil {
		return err
	}

	var req ports.CreateCropInput
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	crop, err := h.crops.Create(c.Request().Context(), p, req)
	if err != nil {
		return err
	}

	h.metrics.CropsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, cropResponse{Message: "Crop created successfully", Crop: crop})
}

// Update applies a partial update to one of the farmer's crops.
//
// @Summary      Update a crop listing
// @Tags         crops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Crop ID"
// @Param        body  body      domain.CropPatch  true  "Fields to change"
// @Success      200   {object}  cropResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/crops/{id} [put]
func (h *CropHandler) Update(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	if err := p.Require(domain.RoleFarmer, "update crops"); err != nil {
		return err
	}

	var patch domain.CropPatch
	if err := decodePatch(c, &patch); err != nil {
		return err
	}

	crop, err := h.crops.Update(c.Request().Context(), p, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cropResponse{Message: "Crop updated successfully", Crop: crop})
}

// List returns the authenticated farmer's crops, newest first.
//
// @Summary      List my crops
// @Tags         crops
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cropsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/crops [get]
func (h *CropHandler) List(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	crops, err := h.crops.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cropsResponse{Crops: nonNil(crops)})
}

// Delete removes one of the farmer's crops. Offers on it are kept.
//
// @Summary      Delete a crop listing
// @Tags         crops
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Crop ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/crops/{id} [delete]
func (h *CropHandler) Delete(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.crops.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Crop deleted successfully"})
}

// Marketplace is the public crop search.
//
// @Summary      Browse the marketplace
// @Tags         marketplace
// @Produce      json
// @Param        crop_type  query     string  false  "Case-insensitive substring of the crop type"
// @Param        location   query     string  false  "Case-insensitive substring of the location"
// @Param        min_price  query     number  false  "Inclusive lower price bound"
// @Param        max_price  query     number  false  "Inclusive upper price bound"
// @Success      200        {object}  marketplaceResponse
// @Failure      400        {object}  errorResponse
// @Router       /api/crops/marketplace [get]
func (h *CropHandler) Marketplace(c echo.Context) error {
	filter, err := parseMarketplaceFilter(c)
	if err != nil {
		return err
	}

	listings, err := h.marketplace.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	h.metrics.MarketplaceQueriesTotal.WithLabelValues(strconv.FormatBool(filter != (domain.MarketplaceFilter{}))).Inc()
	return c.JSON(http.StatusOK, marketplaceResponse{Crops: nonNil(listings)})
}

func parseMarketplaceFilter(c echo.Context) (domain.MarketplaceFilter, error) {
	f := domain.MarketplaceFilter{
		CropType: strings.TrimSpace(c.QueryParam("crop_type")),
		Location: strings.TrimSpace(c.QueryParam("location")),
	}

	var err error
	if f.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

// priceParam returns nil when the parameter is absent or blank.
func priceParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.NewValidationError("%s must be a number", name)
	}
	return &v, nil
}
