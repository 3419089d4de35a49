package server

import (
	"strings"

	"github.com/fulmenhq/gofulmen/signals"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)
	s.router.Get("/health/startup", handlers.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	if s.opts.API != nil {
		s.opts.API.Routes(s.router)
	}

	if s.opts.Pprof {
		s.router.Mount("/debug", chimw.Profiler())
		s.logger().Warn("pprof endpoints enabled under /debug")
	}

	s.registerAdminEndpoint()
}

// registerAdminEndpoint exposes POST /admin/signal when an admin token is set.
func (s *Server) registerAdminEndpoint() {
	token := strings.TrimSpace(s.opts.AdminToken)
	if token == "" {
		s.logger().Debug("Admin signal endpoint disabled (no admin token set)")
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: token,
		RateLimit: 10,
		RateBurst: 5,
	})
	s.router.Post("/admin/signal", handler.ServeHTTP)

	s.logger().Info("Admin signal endpoint enabled",
		zap.String("path", "/admin/signal"),
		zap.String("rate_limit", "10/min, burst 5"))
}
