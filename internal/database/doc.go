// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

/*
Package database executes built queries against the PostgreSQL mirror of
on-chain contract state.

The mirror is written by an external ingestion pipeline; this package only
reads. Handlers build SQL with the query subpackage and pass the rendered
string and its parameter array to an Executor:

	q := query.New("SELECT * FROM atomicassets_assets asset")
	q.Equal("asset.contract", "atomicassets")
	rows, err := exec.Query(ctx, q.Build(), q.Values())

PostgresExecutor is the production implementation. It uses lib/pq over
database/sql, applies the configured statement_timeout to every session and
guards queries with a circuit breaker (sony/gobreaker) so a failing database
sheds load instead of queueing requests. Errors are returned unchanged; an
open breaker surfaces gobreaker.ErrOpenState.

Metrics:

  - db_query_duration_seconds{resource}
  - db_query_errors_total{resource,error_type}
  - db_circuit_breaker_state{name}
*/
package database
