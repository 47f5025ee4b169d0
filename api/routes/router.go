package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modastore/storefront-backend/api/controllers"
	webhookcontrollers "github.com/modastore/storefront-backend/api/controllers/webhooks"
	"github.com/modastore/storefront-backend/api/middleware"
	authsvc "github.com/modastore/storefront-backend/internal/auth"
	cartsvc "github.com/modastore/storefront-backend/internal/cart"
	"github.com/modastore/storefront-backend/internal/catalog"
	checkoutsvc "github.com/modastore/storefront-backend/internal/checkout"
	landingsvc "github.com/modastore/storefront-backend/internal/landing"
	ordersvc "github.com/modastore/storefront-backend/internal/orders"
	paymentsvc "github.com/modastore/storefront-backend/internal/payments"
	reviewsvc "github.com/modastore/storefront-backend/internal/reviews"
	usersvc "github.com/modastore/storefront-backend/internal/users"
	stripewebhook "github.com/modastore/storefront-backend/internal/webhooks/stripe"
	"github.com/modastore/storefront-backend/pkg/config"
	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/logger"
	"github.com/modastore/storefront-backend/pkg/metrics"
	"github.com/modastore/storefront-backend/pkg/redis"
	"github.com/modastore/storefront-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService authsvc.Service,
	landingService landingsvc.Service,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	paymentsService paymentsvc.Service,
	reviewsService reviewsvc.Service,
	usersService usersvc.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	auth := middleware.Auth(cfg.JWT, logg)
	staff := middleware.RequireStaff(logg)
	loginLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("login", cfg.AuthRateLimit.LoginWindow, cfg.AuthRateLimit.LoginLimit), redisClient, logg)
	registerLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("register", cfg.AuthRateLimit.RegisterWindow, cfg.AuthRateLimit.RegisterLimit), redisClient, logg)
	catalogCache := middleware.ResponseCache("catalog", redisClient, cfg.Cache.CatalogTTL, logg)
	cartCache := middleware.ResponseCache("cart", redisClient, cfg.Cache.CartTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(registerLimit).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(loginLimit).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront reads, served through the catalog cache.
		r.With(catalogCache).Get("/landing", controllers.Landing(landingService, logg))
		r.With(catalogCache).Get("/products", controllers.ListProducts(catalogService, logg))
		r.With(catalogCache).Get("/products/bestsellers", controllers.Bestsellers(catalogService, logg))
		r.With(catalogCache).Get("/products/trending", controllers.Trending(catalogService, logg))
		r.With(catalogCache).Get("/products/new_arrivals", controllers.NewArrivals(catalogService, logg))
		r.With(catalogCache).Get("/products/{productId}", controllers.GetProduct(catalogService, logg))
		r.With(catalogCache).Get("/categories", controllers.ListCategories(catalogService, logg))
		r.With(catalogCache).Get("/tags", controllers.ListTags(catalogService, logg))
		r.Get("/reviews", controllers.ListReviews(reviewsService, logg))

		// Authenticated shopper surface.
		r.With(auth, cartCache).Get("/cart", controllers.CartFetch(cartService, logg))
		r.With(auth).Post("/cart/add_item", controllers.CartAddItem(cartService, logg))
		r.With(auth).Post("/cart/update_item", controllers.CartUpdateItem(cartService, logg))
		r.With(auth).Post("/cart/remove_item", controllers.CartRemoveItem(cartService, logg))
		r.With(auth).Post("/cart/clear", controllers.CartClear(cartService, logg))

		r.With(auth).Get("/orders", controllers.ListOrders(ordersService, logg))
		r.With(auth).Post("/orders", controllers.Checkout(checkoutService, logg))
		r.With(auth).Get("/orders/{orderId}", controllers.GetOrder(ordersService, logg))
		r.With(auth, staff).Post("/orders/{orderId}/status", controllers.UpdateOrderStatus(ordersService, logg))

		r.With(auth).Post("/payments/create-payment-intent", controllers.CreatePaymentIntent(paymentsService, logg))
		r.With(auth).Get("/payments/payment-history", controllers.PaymentHistory(paymentsService, logg))

		r.With(auth).Post("/reviews", controllers.CreateReview(reviewsService, logg))
		r.With(auth).Patch("/reviews/{reviewId}", controllers.UpdateReview(reviewsService, logg))
		r.With(auth).Delete("/reviews/{reviewId}", controllers.DeleteReview(reviewsService, logg))

		r.With(auth).Get("/users/me", controllers.Profile(usersService, logg))
		r.With(auth).Put("/users/me", controllers.UpdateProfile(usersService, logg))
		r.With(auth).Get("/users/me/activities", controllers.ListActivities(usersService, logg))

		// Staff management surface.
		r.With(auth, staff).Get("/users", controllers.ListUsers(usersService, logg))
		r.With(auth, staff).Get("/users/{userId}", controllers.GetUser(usersService, logg))
		r.With(auth, staff).Post("/users/{userId}/active", controllers.SetUserActive(usersService, logg))
		r.With(auth, staff).Delete("/users/{userId}", controllers.DeleteUser(usersService, logg))

		r.With(auth, staff).Post("/products", controllers.CreateProduct(catalogService, logg))
		r.With(auth, staff).Patch("/products/{productId}", controllers.UpdateProduct(catalogService, logg))
		r.With(auth, staff).Delete("/products/{productId}", controllers.DeleteProduct(catalogService, logg))

		r.With(auth, staff).Post("/categories", controllers.CreateCategory(catalogService, logg))
		r.With(auth, staff).Patch("/categories/{categoryId}", controllers.UpdateCategory(catalogService, logg))
		r.With(auth, staff).Delete("/categories/{categoryId}", controllers.DeleteCategory(catalogService, logg))

		r.With(auth, staff).Post("/tags", controllers.CreateTag(catalogService, logg))
		r.With(auth, staff).Delete("/tags/{tagId}", controllers.DeleteTag(catalogService, logg))

		r.With(auth, staff).Post("/product-images", controllers.AddProductImage(catalogService, logg))
		r.With(auth, staff).Post("/product-images/{imageId}/primary", controllers.SetPrimaryProductImage(catalogService, logg))
		r.With(auth, staff).Delete("/product-images/{imageId}", controllers.DeleteProductImage(catalogService, logg))
	})

	return r
}
