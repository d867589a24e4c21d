package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/urjavolt/solar-leads-platform/internal/http/middleware"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/internal/relay"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	RelayHandler       *relay.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Rate limiting for the public form endpoints (optional)
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Get("/leads/options", cfg.LeadsHandler.Options)
	})

	// Form submission endpoints. These are unauthenticated and internet-facing,
	// so they sit behind the per-IP rate limit.
	r.Group(func(form chi.Router) {
		if cfg.RateLimitRPS > 0 {
			form.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		form.Post("/leads", cfg.LeadsHandler.SubmitLead)
		// The relay enforces its own method gate so that non-POST requests get
		// the structured "Method not allowed" body rather than chi's default.
		if cfg.RelayHandler != nil {
			form.Handle("/api/submit", cfg.RelayHandler)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
