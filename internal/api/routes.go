package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnslens/internal/api/handlers"
	"github.com/jroosing/dnslens/internal/api/middleware"
	"github.com/jroosing/dnslens/internal/config"
)

// RegisterRoutes wires all API endpoints onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// Health stays unauthenticated for load balancer probes.
	r.GET("/api/v1/health", h.Health)

	api := r.Group("/api/v1")
	if cfg != nil && cfg.API.APIKey != "" {
		api.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	api.GET("/stats", h.Stats)
	api.POST("/decode", h.Decode)

	api.GET("/rejects", h.ListRejects)
	api.GET("/rejects/export", h.ExportRejects)
	api.DELETE("/rejects", h.PruneRejects)
}
