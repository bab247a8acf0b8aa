// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package services adapts components to suture's Serve(ctx) error contract.
//
//   - HTTPServerService wraps *http.Server with graceful shutdown.
//   - DBMonitorService pings the database on an interval and exports the
//     result as the db_up gauge.
package services
