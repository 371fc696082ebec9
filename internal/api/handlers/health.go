package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnslens/internal/api/models"
)

// Health reports liveness. If the audit store is wired, its connectivity
// is part of the check.
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.StatusResponse{Status: "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}
