package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/modamart/modamart/internal/app"
	"github.com/modamart/modamart/internal/auth"
	"github.com/modamart/modamart/internal/cart"
	"github.com/modamart/modamart/internal/catalog"
	"github.com/modamart/modamart/internal/newsletter"
	"github.com/modamart/modamart/internal/platform/cache"
	"github.com/modamart/modamart/internal/platform/db"
	"github.com/modamart/modamart/internal/shared"
	"github.com/modamart/modamart/internal/storefront"
	"github.com/modamart/modamart/internal/wishlist"
	"github.com/modamart/modamart/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "modamart_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobHandler := jobs.NewHandler(inspector, logger)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	policy := cart.ShippingPolicy{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingCost:      cfg.FlatShippingCost,
	}
	cartService := cart.NewService(logger,
		cart.NewPostgresRepository(dbpool),
		cart.NewSessionRepository(redisClient, cfg.SessionTTL),
		catalogRepo, policy)
	cartHandler := cart.NewHandler(logger, cartService)

	wishlistService := wishlist.NewService(
		wishlist.NewPostgresRepository(dbpool),
		wishlist.NewSessionRepository(redisClient, cfg.SessionTTL),
		catalogRepo)
	wishlistHandler := wishlist.NewHandler(logger, wishlistService)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, cartService, wishlistService, jobClient)

	newsletterService := newsletter.NewService(logger, newsletter.NewRepository(dbpool), jobClient)
	newsletterHandler := newsletter.NewHandler(logger, newsletterService)

	storefrontHandler := storefront.NewHandler(logger, storefront.NewService(catalogService))

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		AuthHandler:       authHandler,
		CatalogHandler:    catalogHandler,
		CartHandler:       cartHandler,
		WishlistHandler:   wishlistHandler,
		NewsletterHandler: newsletterHandler,
		StorefrontHandler: storefrontHandler,
		JobHandler:        jobHandler,
		Pool:              dbpool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
