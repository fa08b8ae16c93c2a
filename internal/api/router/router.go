package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lumeskin/clinic-platform/internal/dashboard"
	"github.com/lumeskin/clinic-platform/internal/http/handlers"
	httpmiddleware "github.com/lumeskin/clinic-platform/internal/http/middleware"
	"github.com/lumeskin/clinic-platform/internal/webchat"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AuthHandler        *handlers.AuthHandler
	CatalogHandler     *handlers.CatalogHandler
	WebChatHandler     *webchat.Handler
	Dashboards         []dashboard.Dashboard
	SessionSecret      string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
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

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.CatalogHandler.HealthCheck)
		public.Post("/login", cfg.AuthHandler.Login)
		public.Post("/logout", cfg.AuthHandler.Logout)
		public.Get("/me", cfg.AuthHandler.Me)
		public.Route("/catalog", func(r chi.Router) {
			r.Get("/products", cfg.CatalogHandler.ListProducts)
			r.Get("/products/{productID}", cfg.CatalogHandler.GetProduct)
			r.Get("/doctors", cfg.CatalogHandler.ListDoctors)
			r.Get("/doctors/{doctorID}", cfg.CatalogHandler.GetDoctor)
		})
		if cfg.WebChatHandler != nil {
			public.Get("/chat/ws", cfg.WebChatHandler.HandleWebSocket)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Role dashboards, one mount per role behind its auth gate.
	for _, d := range cfg.Dashboards {
		prefix := "/" + strings.ToLower(string(d.Role()))
		r.Route(prefix, func(role chi.Router) {
			role.Use(httpmiddleware.RequireRole(cfg.SessionSecret, d.Role()))
			role.Mount("/", d.Routes())
		})
	}

	return r
}
