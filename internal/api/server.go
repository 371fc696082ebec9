// Package api provides the REST management API for dnslens: health,
// statistics, ad-hoc packet decoding, and the reject audit trail, served
// over a Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnslens/internal/api/handlers"
	"github.com/jroosing/dnslens/internal/api/middleware"
	"github.com/jroosing/dnslens/internal/config"
	"github.com/jroosing/dnslens/internal/database"
)

// Server is the management REST API server.
//
// Security note: do not expose the API to untrusted networks without an
// API key configured.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds the API server. db and statsFn may be nil (endpoints degrade
// to empty data), which keeps tests and partial deployments simple.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger, statsFn handlers.DecodeStatsFunc) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(cfg, db, logger, statsFn)
	RegisterRoutes(engine, h, cfg)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

// Addr returns the address the server will listen on.
func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
