package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/kestrelhq/model-registry/internal/analytics"
	"github.com/kestrelhq/model-registry/internal/config"
	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/core/services"
	"github.com/kestrelhq/model-registry/internal/gateway"
	"github.com/kestrelhq/model-registry/internal/server/validator"
)

const serviceName = "model-registry"

// Deps carries everything the HTTP layer consumes.
type Deps struct {
	Registry  ports.ModelRegistry
	Router    *services.ModelRouter
	Gateway   gateway.Service
	Analytics analytics.Service
	Version   string
}

type Server struct {
	engine *gin.Engine
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

func New(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()
	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(otelgin.Middleware(serviceName))

	s := &Server{
		engine: engine,
		config: cfg,
		logger: logger,
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
