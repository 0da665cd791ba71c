package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/salon-booking/internal/http/middleware"
	"github.com/wolfman30/salon-booking/internal/observability/metrics"
	"github.com/wolfman30/salon-booking/internal/salonapi"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Handler            *salonapi.Handler
	MetricsHandler     http.Handler
	APIMetrics         *metrics.APIMetrics
	CORSAllowedOrigins []string

	// WriteRatePerMin bounds PUT /api/users and POST /api/bookings per client.
	// Zero disables the limiter.
	WriteRatePerMin int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg == nil || cfg.Handler == nil {
		panic("router: salonapi handler required")
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.APIMetrics))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	h := cfg.Handler
	r.Get("/", h.Index)
	r.Get("/health", h.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/services", h.ListServices)
		api.Get("/users/check", h.CheckUser)

		api.Group(func(writes chi.Router) {
			if cfg.WriteRatePerMin > 0 {
				limiter := httpmiddleware.NewRateLimiter(cfg.WriteRatePerMin, 0)
				writes.Use(httpmiddleware.RateLimit(limiter, cfg.Logger, cfg.APIMetrics.ObserveRateLimited))
			}
			writes.Put("/users", h.PutUser)
			writes.Post("/bookings", h.CreateBooking)
		})
	})

	return r
}
