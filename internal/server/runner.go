package server

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jroosing/dnslens/internal/api"
	"github.com/jroosing/dnslens/internal/api/handlers"
	"github.com/jroosing/dnslens/internal/config"
	"github.com/jroosing/dnslens/internal/database"
)

// Runner orchestrates startup, wiring, and shutdown of the tap, the audit
// store, and the management API.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a new runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts dnslens with the given configuration and blocks until
// SIGINT/SIGTERM.
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext starts dnslens and blocks until ctx is canceled or the
// tap fails.
//
// Goroutine lifecycle: one for the tap receive loop, one for the API
// server (if enabled), one for the retention prune ticker. All exit when
// ctx is canceled.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	stats := NewDecodeStats()
	tap := &Tap{
		Logger:         r.logger,
		Stats:          stats,
		Store:          db,
		BufferSize:     cfg.Tap.RecvBufferSize,
		MaxConcurrency: cfg.Tap.MaxConcurrency,
	}

	addr := net.JoinHostPort(cfg.Tap.Host, strconv.Itoa(cfg.Tap.Port))
	r.logger.Info("tap starting",
		"addr", addr,
		"recv_buffer", cfg.Tap.RecvBufferSize,
		"max_concurrency", cfg.Tap.MaxConcurrency,
	)

	var apiSrv *api.Server
	if cfg.API.Enabled {
		apiSrv = api.New(cfg, db, r.logger, func() handlers.DecodeStatsSnapshot {
			s := stats.Snapshot()
			return handlers.DecodeStatsSnapshot{
				Total:          s.Total,
				OK:             s.OK,
				Rejected:       s.Rejected(),
				HeaderTooShort: s.HeaderTooShort,
				BadQuestion:    s.BadQuestion,
				BadAnswer:      s.BadAnswer,
				BadAuthority:   s.BadAuthority,
				BadAdditional:  s.BadAdditional,
				BytesSeen:      s.BytesSeen,
				AvgLatencyUs:   s.AvgLatencyUs,
			}
		})
		go func() {
			r.logger.Info("api starting", "addr", apiSrv.Addr())
			if err := apiSrv.ListenAndServe(); err != nil {
				r.logger.Error("api server stopped", "error", err)
			}
		}()
	}

	go r.pruneLoop(ctx, db, cfg.Database.RetentionDays)

	errCh := make(chan error, 1)
	go func() { errCh <- tap.Run(ctx, addr) }()

	var runErr error
	select {
	case <-ctx.Done():
		// shutdown requested
	case runErr = <-errCh:
	}
	cancelRun()

	if err := tap.Stop(5 * time.Second); err != nil {
		r.logger.Warn("tap shutdown", "error", err)
	}
	if apiSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("api shutdown", "error", err)
		}
	}

	r.logger.Info("shutdown complete")
	return runErr
}

// pruneLoop periodically removes rejects older than the retention window.
func (r *Runner) pruneLoop(ctx context.Context, db *database.DB, retentionDays int) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
			n, err := db.PruneRejects(cutoff)
			if err != nil {
				r.logger.Error("prune failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.Info("pruned rejects", "removed", n, "cutoff", cutoff)
			}
		}
	}
}
