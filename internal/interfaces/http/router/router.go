package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/infrastructure/config"
	"github.com/lineshop/backend/internal/infrastructure/logger"
	"github.com/lineshop/backend/internal/interfaces/http/handler"
	"github.com/lineshop/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Health    *handler.HealthHandler
	LineLogin *handler.LineLoginHandler
	LineAdmin *handler.LineAdminHandler
}

// New builds the gin engine with all routes and middleware attached.
func New(cfg *config.Config, log *zap.Logger, sessions middleware.SessionValidator, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/healthz", h.Health.Health)

	lineGroup := engine.Group("/line")
	{
		lineGroup.GET("/login/nonce", h.LineLogin.Nonce)
		lineGroup.POST("/login", h.LineLogin.Login)
	}

	adminGroup := engine.Group("/admin/line")
	adminGroup.Use(middleware.RequireAuth(sessions))
	{
		adminGroup.POST("/verify-token", h.LineAdmin.VerifyToken)
		adminGroup.POST("/test-message", h.LineAdmin.TestMessage)
		adminGroup.GET("/links", h.LineAdmin.ListLinks)
		adminGroup.GET("/links/:user_id", h.LineAdmin.InspectLink)
		adminGroup.DELETE("/links/:user_id", h.LineAdmin.Unlink)
		adminGroup.POST("/backfill", h.LineAdmin.Backfill)
	}

	return engine
}
