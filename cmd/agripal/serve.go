package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Aaya-Elsharief/Agri-pal/internal/api"
	"github.com/Aaya-Elsharief/Agri-pal/internal/api/handler"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/service"
	mongodb "github.com/Aaya-Elsharief/Agri-pal/internal/infrastructure/db/mongo"
	redisdb "github.com/Aaya-Elsharief/Agri-pal/internal/infrastructure/db/redis"
	"github.com/Aaya-Elsharief/Agri-pal/internal/pkg/token"
)

const shutdownTimeout = 10 * time.Second

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Agri-pal API server",
	Long: `Connects to MongoDB (and Redis when the marketplace cache is enabled),
ensures indexes and serves the HTTP API until SIGINT or SIGTERM. Usage:

	agripal serve
`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	// --- Redis (optional marketplace cache) ---
	var (
		rdb   *goredis.Client
		cache ports.MarketplaceCache
	)
	if cfg.CacheEnabled() {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("marketplace cache disabled")
		} else {
			defer func() { _ = rdb.Close() }()
			cache = redisdb.NewMarketplaceCache(rdb, cfg.Redis.CacheTTL)
		}
	}

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	crops := mongodb.NewCropRepository(db)
	offers := mongodb.NewOfferRepository(db)
	codec := token.NewCodec(cfg.SecretKey)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := api.NewRouter(api.Dependencies{
		Auth:        service.NewAuthService(users, codec, log),
		Crops:       service.NewCropService(crops, cache, log),
		Marketplace: service.NewMarketplaceService(crops, cache, log),
		Offers:      service.NewOfferService(offers, crops, users, log),
		Tokens:      codec,
		Readiness:   handler.NewHealthDependenciesHandler(db, rdb),
		Logger:      log,
		Registry:    reg,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("cache", cache != nil).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
