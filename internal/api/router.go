package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/steven6143/stock-profit-calculator/internal/api/handlers"
	custommiddleware "github.com/steven6143/stock-profit-calculator/internal/api/middleware"
	"github.com/steven6143/stock-profit-calculator/internal/config"
	"github.com/steven6143/stock-profit-calculator/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	positionService *service.PositionService,
	portfolioService *service.PortfolioService,
	refreshService *service.RefreshService,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(positionService)
			r.Get("/", positionHandler.List)
			r.Post("/", positionHandler.Save)
			r.Get("/{code}", positionHandler.Get)
			r.Delete("/{code}", positionHandler.Delete)
		})

		portfolioHandler := handlers.NewPortfolioHandler(portfolioService, refreshService)
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Snapshot)
			r.With(custommiddleware.APIKey).Post("/refresh", portfolioHandler.Refresh)
		})

		r.Get("/classify", portfolioHandler.Classify)
	})

	return r
}
