// Package app wires configuration, storage and the HTTP surface into a
// runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"yawt/pkg/config"
	"yawt/pkg/logger"
	"yawt/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg     config.Config
	st      *store.Store
	srv     *http.Server
	version string
}

// New validates the configuration and opens the store. It does not start
// the HTTP server; call Run to start it and block until shutdown.
func New(cfg config.Config, version string) (*App, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", cfg.Server.DBPath, err)
	}
	return &App{cfg: cfg, st: st, version: version}, nil
}

// Store exposes the underlying store, mainly for tests.
func (a *App) Store() *store.Store { return a.st }

// Run starts the HTTP server and blocks until ctx is canceled or a fatal
// server error occurs. The store is closed on the way out.
func (a *App) Run(ctx context.Context) error {
	errCh := a.startHTTP()
	logger.Info("server_started", "addr", a.cfg.Addr(), "version", a.version)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
		err := a.st.Close()
		logger.Info("server_stopped")
		return err
	case err := <-errCh:
		_ = a.st.Close()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func validateConfig(cfg config.Config) error {
	if cfg.Server.DBPath == "" {
		return fmt.Errorf("db path required")
	}
	if len(cfg.Security.SigningKeys) == 0 {
		return fmt.Errorf("at least one signing key required (security.signing_keys or YAWT_SIGNING_KEYS)")
	}
	return nil
}
