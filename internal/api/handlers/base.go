// Package handlers implements the REST API endpoint handlers for dnslens.
//
// Endpoints:
//   - GET    /api/v1/health          - liveness + audit store ping
//   - GET    /api/v1/stats           - runtime, system, and decode statistics
//   - POST   /api/v1/decode          - structurally decode a submitted packet
//   - GET    /api/v1/rejects         - recent audited decode failures
//   - GET    /api/v1/rejects/export  - zstd-compressed JSONL dump of rejects
//   - DELETE /api/v1/rejects         - prune rejects older than a cutoff
//
// All endpoints except /health honor optional X-API-Key authentication.
package handlers

import (
	"log/slog"
	"time"

	"github.com/jroosing/dnslens/internal/config"
	"github.com/jroosing/dnslens/internal/database"
)

// DecodeStatsSnapshot contains a point-in-time snapshot of tap statistics.
// Duplicated from the server package to keep this package free of a
// dependency on the tap itself.
type DecodeStatsSnapshot struct {
	Total          uint64
	OK             uint64
	Rejected       uint64
	HeaderTooShort uint64
	BadQuestion    uint64
	BadAnswer      uint64
	BadAuthority   uint64
	BadAdditional  uint64
	BytesSeen      uint64
	AvgLatencyUs   float64
}

// DecodeStatsFunc returns the current tap statistics.
type DecodeStatsFunc func() DecodeStatsSnapshot

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	db        *database.DB
	logger    *slog.Logger
	statsFn   DecodeStatsFunc
	startTime time.Time
}

// New creates a Handler. db and statsFn may be nil; the corresponding
// endpoints then report empty data.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger, statsFn DecodeStatsFunc) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		logger:    logger,
		statsFn:   statsFn,
		startTime: time.Now(),
	}
}
