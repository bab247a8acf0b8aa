// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package main is the entry point for the NFTMirror API server.
//
// NFTMirror serves filtered, paginated reads over a PostgreSQL mirror of the
// AtomicAssets and AtomicMarket contracts. Startup order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog configured from LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//  3. Database: lib/pq pool behind a circuit breaker
//  4. HTTP: chi router with the per-resource list and count endpoints
//  5. Supervisor tree: DB monitor (data layer) and HTTP server (api layer)
//
// SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
// requests for SERVER_SHUTDOWN_TIMEOUT before the pool is closed.
//
//	export POSTGRES_HOST=replica.internal
//	export POSTGRES_PASSWORD=secret
//	export ATOMICASSETS_CONTRACT=atomicassets
//	./nftmirror
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/nftmirror/internal/api"
	"github.com/tomtom215/nftmirror/internal/config"
	"github.com/tomtom215/nftmirror/internal/database"
	"github.com/tomtom215/nftmirror/internal/logging"
	"github.com/tomtom215/nftmirror/internal/supervisor"
	"github.com/tomtom215/nftmirror/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.Name).
		Str("environment", cfg.Server.Environment).
		Msg("Starting NFTMirror")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(ctx, 30*time.Second)
	exec, err := database.Open(openCtx, &cfg.Database)
	cancelOpen()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := exec.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	handler := api.NewHandler(exec, cfg)
	chiMw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))
	router := api.NewRouter(handler, chiMw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDataService(services.NewDBMonitorService(exec, cfg.Database.MonitorInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("NFTMirror stopped")
}
