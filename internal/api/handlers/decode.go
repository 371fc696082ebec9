package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnslens/internal/api/models"
	"github.com/jroosing/dnslens/internal/wire"
)

// maxDecodeBody bounds the submitted packet; 64 KiB covers any message
// that fits a single TCP-framed DNS payload.
const maxDecodeBody = 65535

// Decode structurally decodes a base64-encoded packet submitted by the
// caller. Malformed packets are a 200 with ok=false: the decode worked,
// the packet is just bad.
func (h *Handler) Decode(c *gin.Context) {
	var req models.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "packet field is required"})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Packet)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "packet must be valid base64"})
		return
	}
	if len(raw) > maxDecodeBody {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "packet too large"})
		return
	}

	s := wire.Decode(raw)
	c.JSON(http.StatusOK, models.DecodeResponse{
		OK:     s.OK(),
		Status: s.Status.String(),
		Length: len(raw),
		Header: models.DecodeHeader{
			ID:      s.Header.ID,
			Flags:   s.Header.Flags,
			QDCount: s.Header.QDCount,
			ANCount: s.Header.ANCount,
			NSCount: s.Header.NSCount,
			ARCount: s.Header.ARCount,
		},
	})
}
