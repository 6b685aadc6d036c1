// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package main is the entry point for the Field Atlas server.
//
// Field Atlas serves an interactive map of India showing field sites and
// scientific instruments from an external project-management API, with
// state and district boundary overlays and an inverse-country mask that
// dims everything outside India.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml, env)
//  2. Data source: upstream client behind a circuit breaker, snapshot cache,
//     demo fallback
//  3. Layer registry: visibility state, base styles, viewport clamps
//  4. WebSocket hub: pushes state changes to connected clients
//  5. Map controller: orchestrates boundary/project loads and modal dispatch
//  6. HTTP server: REST API under chi
//
// Everything runs under a suture supervisor tree so a crashing component
// restarts in isolation.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (SERVER_PORT, UPSTREAM_URL, GEODATA_DIR, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// The upstream API is optional: with UPSTREAM_URL unset the map serves the
// built-in demo dataset and reports its source as "fallback".
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (shutdown timeout)
//   - Closes websocket clients
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldatlas/fieldatlas/internal/api"
	"github.com/fieldatlas/fieldatlas/internal/cache"
	"github.com/fieldatlas/fieldatlas/internal/catalog"
	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/controller"
	"github.com/fieldatlas/fieldatlas/internal/layers"
	"github.com/fieldatlas/fieldatlas/internal/logging"
	"github.com/fieldatlas/fieldatlas/internal/supervisor"
	"github.com/fieldatlas/fieldatlas/internal/supervisor/services"
	ws "github.com/fieldatlas/fieldatlas/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config not yet available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Field Atlas with supervisor tree")

	if cfg.Upstream.URL != "" {
		logging.Info().
			Str("upstream_url", cfg.Upstream.URL).
			Str("geodata_dir", cfg.GeoData.Dir).
			Msg("Configuration loaded")
	} else {
		logging.Info().
			Bool("upstream_enabled", false).
			Str("geodata_dir", cfg.GeoData.Dir).
			Msg("Configuration loaded (demo mode)")
	}

	// Upstream client behind a circuit breaker; the breaker prevents
	// hammering a failing API while the demo fallback serves clients.
	client := catalog.NewBreakerClient(catalog.NewClient(&cfg.Upstream))
	source := catalog.NewSource(cfg, client, cache.New(cfg.Cache.TTL))
	registry := layers.NewRegistry(&cfg.Map, source)
	hub := ws.NewHub()
	ctrl := controller.New(cfg, source, registry, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First data load. Initialize never fails; a dead upstream only means
	// fewer layers until the refresh service picks it back up.
	ctrl.Initialize(ctx)
	logging.Info().
		Str("source", string(source.Status())).
		Msg("Initial data load complete")

	// Bridge zerolog to slog for sutureslog compatibility.
	slogLogger := slog.New(logging.NewSlogHandler())

	tree, err := supervisor.NewTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, ctrl, hub).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree.AddDataService(services.NewRefreshService(ctrl, cfg.Cache.TTL))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	done := tree.ServeBackground(ctx)
	logging.Info().
		Str("addr", server.Addr).
		Msg("Server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree exited with error")
		}
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor tree failed")
		}
	}

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
