// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/nftmirror/internal/logging"
)

// healthTimeout bounds the database ping of a health check.
const healthTimeout = 2 * time.Second

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime"`
}

// Health reports process uptime and database reachability. It returns 503
// when the database cannot be pinged.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: true,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	if pinger, ok := h.executor.(Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: database unreachable")
			health.Status = "degraded"
			health.DatabaseConnected = false
			NewResponseWriter(w, r).ServiceUnavailable(health)
			return
		}
	}

	NewResponseWriter(w, r).Success(health)
}
