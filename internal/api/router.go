package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/metrics"
)

// NewRouter assembles the dashboard API router.
func NewRouter(cfg *config.APIConfig, handler *Handler, hub *Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/opportunities/today", handler.TodayOpportunities)
		r.Get("/opportunities/upcoming", handler.UpcomingOpportunities)
		r.Get("/opportunities/fixture/{fixtureID}", handler.OpportunityByFixture)
		r.Get("/stats/performance", handler.PerformanceStats)
	})

	if hub != nil {
		r.Get("/ws", hub.ServeWS)
	}

	return r
}
