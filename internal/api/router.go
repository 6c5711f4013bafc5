package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Aaya-Elsharief/Agri-pal/docs"
	"github.com/Aaya-Elsharief/Agri-pal/internal/api/handler"
	"github.com/Aaya-Elsharief/Agri-pal/internal/api/metrics"
	"github.com/Aaya-Elsharief/Agri-pal/internal/api/middleware"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth        ports.AuthService
	Crops       ports.CropService
	Marketplace ports.MarketplaceService
	Offers      ports.OfferService
	Tokens      middleware.TokenVerifier

	// Readiness backs GET /health/ready. The route is not registered when nil.
	Readiness *handler.HealthDependenciesHandler

	Logger zerolog.Logger
	// Registry receives the HTTP and domain metrics and is served on /metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "agripal",
		Registerer: deps.Registry,
	}))

	m := metrics.New(deps.Registry)
	authHandler := handler.NewAuthHandler(deps.Auth, m)
	cropHandler := handler.NewCropHandler(deps.Crops, deps.Marketplace, m)
	offerHandler := handler.NewOfferHandler(deps.Offers, m)
	auth := middleware.Auth(deps.Tokens)

	// --- Public ---
	e.GET("/", handler.Home)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness)
	}

	api := e.Group("/api")

	// --- User routes ---
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.GET("/profile", authHandler.Profile, auth)

	// --- Crop routes ---
	crops := api.Group("/crops")
	crops.GET("/marketplace", cropHandler.Marketplace)
	crops.POST("", cropHandler.Create, auth)
	crops.GET("", cropHandler.List, auth)
	crops.PUT("/:id", cropHandler.Update, auth)
	crops.DELETE("/:id", cropHandler.Delete, auth)

	// --- Offer routes ---
	crops.POST("/:id/offer", offerHandler.Create, auth)
	crops.GET("/:id/offers", offerHandler.ListForCrop, auth)
	crops.GET("/offers", offerHandler.ListMine, auth)
	crops.PUT("/offers/:id", offerHandler.Update, auth)
	crops.DELETE("/offers/:id", offerHandler.Delete, auth)

	return e
}

// requestLogger writes one access log entry per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
