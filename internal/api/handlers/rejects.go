package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnslens/internal/api/models"
	"github.com/jroosing/dnslens/internal/helpers"
)

const (
	defaultRejectsLimit = 100
	maxRejectsLimit     = 1000
)

// ListRejects returns the most recent audited decode failures.
// Query param: limit (1..1000, default 100).
func (h *Handler) ListRejects(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, models.RejectsResponse{Rejects: nil})
		return
	}

	limit := defaultRejectsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "limit must be an integer"})
			return
		}
		limit = helpers.ClampInt(n, 1, maxRejectsLimit)
	}

	rejects, err := h.db.RecentRejects(limit)
	if err != nil {
		h.logger.Error("failed to list rejects", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list rejects"})
		return
	}
	c.JSON(http.StatusOK, models.RejectsResponse{Count: len(rejects), Rejects: rejects})
}

// PruneRejects deletes audit rows older than the configured retention, or
// older than the optional `before` query param (RFC 3339).
func (h *Handler) PruneRejects(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, models.PruneResponse{Removed: 0})
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -h.cfg.Database.RetentionDays)
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "before must be RFC 3339"})
			return
		}
		cutoff = t
	}

	removed, err := h.db.PruneRejects(cutoff)
	if err != nil {
		h.logger.Error("failed to prune rejects", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to prune rejects"})
		return
	}
	c.JSON(http.StatusOK, models.PruneResponse{Removed: removed})
}
