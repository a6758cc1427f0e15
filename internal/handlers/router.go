package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bouwshop/api/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	catalog   RouteRegistrar
	orders    RouteRegistrar
	discounts RouteRegistrar
	customers RouteRegistrar
	admin     RouteRegistrar
	payment   RouteRegistrar
	seed      RouteRegistrar
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix = "/api"
	defaultTimeout   = 60 * time.Second
)

// NewRouter constructs the chi router with shared middleware and route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers(nil)
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)

	r.Route(cfg.basePath, func(api chi.Router) {
		api.Get("/", cfg.health.Banner)
		register(api, cfg.catalog)
		register(api, cfg.orders)
		register(api, cfg.discounts)
		register(api, cfg.customers)
		register(api, cfg.admin)
		register(api, cfg.payment)
		register(api, cfg.seed)
	})

	return r
}

func register(r chi.Router, registrar RouteRegistrar) {
	if registrar != nil {
		registrar(r)
	}
}

// WithBasePath overrides the API prefix.
func WithBasePath(path string) Option {
	return func(cfg *routerConfig) {
		if path != "" {
			cfg.basePath = path
		}
	}
}

// WithMiddlewares replaces the default middleware chain.
func WithMiddlewares(middlewares ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = middlewares
	}
}

// WithHealthHandlers injects the health handlers.
func WithHealthHandlers(health *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = health
	}
}

// WithCatalogRoutes mounts category and product endpoints.
func WithCatalogRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.catalog = registrar }
}

// WithOrderRoutes mounts order endpoints.
func WithOrderRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.orders = registrar }
}

// WithDiscountRoutes mounts discount endpoints.
func WithDiscountRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.discounts = registrar }
}

// WithCustomerRoutes mounts customer endpoints.
func WithCustomerRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.customers = registrar }
}

// WithAdminRoutes mounts dashboard and reporting endpoints.
func WithAdminRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.admin = registrar }
}

// WithPaymentRoutes mounts the payment processor endpoints.
func WithPaymentRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.payment = registrar }
}

// WithSeedRoutes mounts the sample-data bootstrap endpoint.
func WithSeedRoutes(registrar RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.seed = registrar }
}
