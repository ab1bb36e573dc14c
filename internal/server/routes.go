package server

import (
	"github.com/kestrelhq/model-registry/internal/server/middleware"
	v1 "github.com/kestrelhq/model-registry/internal/server/v1"
)

func (s *Server) setupRoutes() {
	healthHandler := v1.NewHealthHandler(s.deps.Version)
	s.engine.GET("/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)

	api := s.engine.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(limiter.Middleware())
	api.Use(middleware.Entitlement())
	{
		modelHandler := v1.NewModelHandler(s.deps.Registry, s.deps.Router)
		api.GET("/models", modelHandler.ListModels)
		api.GET("/models/records", modelHandler.ListRecords)
		api.POST("/models/resolve", modelHandler.Resolve)

		chatHandler := v1.NewChatHandler(s.deps.Gateway)
		api.POST("/chat", chatHandler.Chat)

		usageHandler := v1.NewUsageHandler(s.deps.Analytics)
		api.GET("/usage/overview", usageHandler.Overview)
	}
}
