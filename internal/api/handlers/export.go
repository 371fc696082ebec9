package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"

	"github.com/jroosing/dnslens/internal/api/models"
)

// exportLimit caps how many rows one export streams.
const exportLimit = 100000

// ExportRejects streams the audit trail as zstd-compressed JSONL, one
// reject per line, newest first.
func (h *Handler) ExportRejects(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, models.RejectsResponse{Rejects: nil})
		return
	}

	rejects, err := h.db.RecentRejects(exportLimit)
	if err != nil {
		h.logger.Error("failed to export rejects", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to export rejects"})
		return
	}

	c.Header("Content-Type", "application/zstd")
	c.Header("Content-Disposition", `attachment; filename="rejects.jsonl.zst"`)
	c.Status(http.StatusOK)

	zw, err := zstd.NewWriter(c.Writer)
	if err != nil {
		h.logger.Error("failed to create zstd writer", "error", err)
		return
	}
	defer zw.Close()

	enc := json.NewEncoder(zw)
	for _, r := range rejects {
		if err := enc.Encode(r); err != nil {
			h.logger.Error("failed to encode reject", "error", err)
			return
		}
	}
}
