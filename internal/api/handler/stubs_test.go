package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Aaya-Elsharief/Agri-pal/internal/api/metrics"
	"github.com/Aaya-Elsharief/Agri-pal/internal/api/middleware"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
)

var (
	farmer = domain.Principal{UserID: "farmer-1", Role: domain.RoleFarmer}
	trader = domain.Principal{UserID: "trader-1", Role: domain.RoleTrader}
)

func newMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

// newContext builds an echo context for method/target with an optional body.
// A zero principal leaves the request unauthenticated.
func newContext(method, target, body string, p domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p.UserID != "" {
		c.Set(middleware.PrincipalKey, p)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	profileFn  func(ctx context.Context, p domain.Principal) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Profile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.profileFn(ctx, p)
}

type stubCropService struct {
	createFn func(ctx context.Context, p domain.Principal, in ports.CreateCropInput) (*domain.Crop, error)
	updateFn func(ctx context.Context, p domain.Principal, id string, patch domain.CropPatch) (*domain.Crop, error)
	listFn   func(ctx context.Context, p domain.Principal) ([]domain.Crop, error)
	deleteFn func(ctx context.Context, p domain.Principal, id string) error
}

func (s *stubCropService) Create(ctx context.Context, p domain.Principal, in ports.CreateCropInput) (*domain.Crop, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubCropService) Update(ctx context.Context, p domain.Principal, id string, patch domain.CropPatch) (*domain.Crop, error) {
	return s.updateFn(ctx, p, id, patch)
}

func (s *stubCropService) List(ctx context.Context, p domain.Principal) ([]domain.Crop, error) {
	return s.listFn(ctx, p)
}

func (s *stubCropService) Delete(ctx context.Context, p domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

type stubMarketplace struct {
	searchFn func(ctx context.Context, f domain.MarketplaceFilter) ([]domain.MarketplaceListing, error)
}

func (s *stubMarketplace) Search(ctx context.Context, f domain.MarketplaceFilter) ([]domain.MarketplaceListing, error) {
	return s.searchFn(ctx, f)
}

type stubOfferService struct {
	createFn        func(ctx context.Context, p domain.Principal, cropID string, in ports.OfferInput) (*domain.Offer, error)
	listForCropFn   func(ctx context.Context, p domain.Principal, cropID string) ([]domain.Offer, error)
	listForTraderFn func(ctx context.Context, p domain.Principal) ([]domain.TraderOffer, error)
	updateFn        func(ctx context.Context, p domain.Principal, id string, in ports.OfferInput) (*domain.Offer, error)
	deleteFn        func(ctx context.Context, p domain.Principal, id string) error
}

func (s *stubOfferService) Create(ctx context.Context, p domain.Principal, cropID string, in ports.OfferInput) (*domain.Offer, error) {
	return s.createFn(ctx, p, cropID, in)
}

func (s *stubOfferService) ListForCrop(ctx context.Context, p domain.Principal, cropID string) ([]domain.Offer, error) {
	return s.listForCropFn(ctx, p, cropID)
}

func (s *stubOfferService) ListForTrader(ctx context.Context, p domain.Principal) ([]domain.TraderOffer, error) {
	return s.listForTraderFn(ctx, p)
}

func (s *stubOfferService) Update(ctx context.Context, p domain.Principal, id string, in ports.OfferInput) (*domain.Offer, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubOfferService) Delete(ctx context.Context, p domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}
