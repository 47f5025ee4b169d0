package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/modastore/storefront-backend/api/routes"
	"github.com/modastore/storefront-backend/internal/auth"
	"github.com/modastore/storefront-backend/internal/cart"
	"github.com/modastore/storefront-backend/internal/catalog"
	"github.com/modastore/storefront-backend/internal/checkout"
	"github.com/modastore/storefront-backend/internal/landing"
	"github.com/modastore/storefront-backend/internal/orders"
	"github.com/modastore/storefront-backend/internal/payments"
	"github.com/modastore/storefront-backend/internal/reviews"
	"github.com/modastore/storefront-backend/internal/users"
	stripewebhook "github.com/modastore/storefront-backend/internal/webhooks/stripe"
	"github.com/modastore/storefront-backend/pkg/config"
	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/logger"
	"github.com/modastore/storefront-backend/pkg/metrics"
	"github.com/modastore/storefront-backend/pkg/migrate"
	"github.com/modastore/storefront-backend/pkg/redis"
	pkgstripe "github.com/modastore/storefront-backend/pkg/stripe"
)

// Stripe retries failed webhook deliveries for up to three days, so seen
// event ids must outlive the retry window.
const stripeEventTTL = 72 * time.Hour

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize stripe", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	activityRepo := users.NewActivityRepository(gdb)
	productRepo := catalog.NewRepository(gdb)
	categoryRepo := catalog.NewCategoryRepository(gdb)
	tagRepo := catalog.NewTagRepository(gdb)
	imageRepo := catalog.NewImageRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)
	paymentRepo := payments.NewRepository(gdb)
	reviewRepo := reviews.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		ActivityRepo:   activityRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(productRepo, categoryRepo, tagRepo, imageRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	landingService, err := landing.NewService(catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create landing service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.Params{
		Carts:    cartRepo,
		Products: productRepo,
		Orders:   orderRepo,
		DBClient: dbClient,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(paymentRepo, payments.NewStripeClient(stripeClient), cfg.Checkout.Currency)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviewRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo, activityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	eventGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, stripeEventTTL, stripewebhook.EventScope)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	stripeWebhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Payments:          paymentRepo,
		Orders:            orderRepo,
		Guard:             eventGuard,
		TransactionRunner: dbClient,
		Logger:            logg,
		DefaultCurrency:   cfg.Checkout.Currency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpMetrics,
			authService,
			landingService,
			catalogService,
			cartService,
			checkoutService,
			ordersService,
			paymentsService,
			reviewsService,
			usersService,
			stripeClient,
			stripeWebhookService,
		),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
