// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package main is the entry point for the Streamkeep server.
//
// Streamkeep is a self-hosted catalog API for streaming media metadata:
// movies, series with nested seasons and episodes, categories, users, watch
// history and an audit trail. All records live as flat JSON files under the
// data directory; every access runs through a cross-process file lock and
// schema validation, so multiple instances can share one data directory.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): STREAMKEEP_* environment variables, a config.yaml file,
// built-in defaults. Required settings:
//
//	export STREAMKEEP_STORAGE_DATA_DIR=/data
//	export STREAMKEEP_SECURITY_JWT_SECRET=$(openssl rand -base64 32)
//	export STREAMKEEP_SECURITY_ADMIN_USERNAME=admin
//	export STREAMKEEP_SECURITY_ADMIN_PASSWORD=secure-password
//	export STREAMKEEP_MEDIA_ALLOWED_HOSTS=cdn.example.org,media.example.org
//	./streamkeep
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10 seconds for in-flight requests,
// then drains the audit writer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamkeep/streamkeep/internal/api"
	"github.com/streamkeep/streamkeep/internal/audit"
	"github.com/streamkeep/streamkeep/internal/catalog"
	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/store"
	"github.com/streamkeep/streamkeep/internal/users"
	"github.com/streamkeep/streamkeep/internal/validation"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	validation.SetAllowedHosts(cfg.Media.AllowedHosts)

	st := store.New(cfg.Storage)
	userSvc := users.New(st)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := userSvc.Bootstrap(ctx, cfg.Security.AdminUsername, cfg.Security.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	auditLog := audit.NewLogger(st.Path("audit.log"), cfg.Audit.Enabled, cfg.Audit.BufferSize)
	defer auditLog.Close()

	jwtManager, err := api.NewJWTManager(cfg.Security)
	if err != nil {
		return err
	}

	handler := api.NewHandler(
		catalog.NewMovies(st),
		catalog.NewCategories(st),
		catalog.NewSeries(st),
		catalog.NewHistory(st),
		userSvc,
		auditLog,
		jwtManager,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("data_dir", cfg.Storage.DataDir).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Err(err).Msg("graceful shutdown failed")
		return err
	}

	logging.Info().Msg("server stopped")
	return nil
}
