package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendora/marketplace/internal/service"
	"github.com/vendora/marketplace/pkg/health"
	"github.com/vendora/marketplace/pkg/middleware"
)

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(
	cartService *service.CartService,
	orderService *service.OrderService,
	shippingService *service.ShippingService,
	facetService *service.FacetService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("marketplace"))
	r.Use(middleware.Tracing("marketplace"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	cartHandler := NewCartHandler(cartService, logger)
	orderHandler := NewOrderHandler(orderService, logger)
	shippingHandler := NewShippingHandler(shippingService, logger)
	facetHandler := NewFacetHandler(facetService, logger)

	// Authenticated cart and order endpoints. Identity is asserted by the
	// edge gateway and forwarded via X-User-ID.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Identity())

		r.Post("/", cartHandler.SaveCart)
		r.Get("/", cartHandler.GetCart)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Identity())

		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/{id}", orderHandler.GetOrder)
	})

	// Public catalog endpoints
	r.Get("/api/v1/shipping/quote", shippingHandler.Quote)
	r.Get("/api/v1/sizes", facetHandler.GetSizes)

	return r
}
