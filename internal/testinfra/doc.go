// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package testinfra starts throwaway containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// NewPostgresContainer runs a PostgreSQL server seeded by init scripts and
// returns a config.DatabaseConfig for database.Open. Tests call
// SkipIfNoDocker first so the suite still passes on machines without Docker.
package testinfra
