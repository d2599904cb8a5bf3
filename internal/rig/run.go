package rig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"luxdeck/internal/config"
)

// Run starts the rig daemon and blocks until ctx is cancelled. A file lock
// under the data dir keeps a second daemon from racing the first for the
// scene database and the session singleton.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.Rig.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Rig.DataDir, "rig.lock"))

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire rig lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another rig daemon already holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	store, err := OpenStore(cfg.Rig.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	plans, err := NewPlanSource(cfg.Rig.FixturePlanPath)
	if err != nil {
		return err
	}

	output := NewOutput(cfg.Rig.Universes)
	server := NewServer(logger, store, output, NewSessions(output), plans)

	httpServer := &http.Server{
		Addr:              cfg.Rig.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("rig daemon listening", "addr", cfg.Rig.Listen, "db", store.path)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
