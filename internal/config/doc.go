// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package config loads and validates application configuration.
//
// Sources are layered with Koanf v2: struct defaults, then an optional YAML
// file (CONFIG_PATH or config.yaml), then environment variables. Only the
// variables listed in envMappings are read.
//
// # Environment Variables
//
//	HTTP_PORT, HTTP_HOST, SERVER_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT, ENVIRONMENT
//	POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB, POSTGRES_SSLMODE
//	DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME, DB_STATEMENT_TIMEOUT,
//	DB_MONITOR_INTERVAL
//	DB_BREAKER_MAX_REQUESTS, DB_BREAKER_INTERVAL, DB_BREAKER_TIMEOUT,
//	DB_BREAKER_MIN_REQUESTS, DB_BREAKER_FAILURE_RATIO
//	API_DEFAULT_PAGE_SIZE, API_MAX_PAGE_SIZE, ATOMICASSETS_CONTRACT, ATOMICMARKET_CONTRACT
//	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// # Validation
//
// Field constraints are go-playground/validator struct tags; cross-field
// rules (page sizes, pool sizes, timeouts, rate limits) are checked in
// Validate. Load fails on the first violation.
package config
