// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package services

import (
	"context"
	"time"

	"github.com/tomtom215/nftmirror/internal/logging"
	"github.com/tomtom215/nftmirror/internal/metrics"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBMonitorService pings the database on an interval, exports the result as
// db_up and logs every change in reachability.
type DBMonitorService struct {
	db       Pinger
	interval time.Duration
	timeout  time.Duration
	name     string
}

// NewDBMonitorService creates a monitor that pings db every interval.
func NewDBMonitorService(db Pinger, interval time.Duration) *DBMonitorService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &DBMonitorService{
		db:       db,
		interval: interval,
		timeout:  timeout,
		name:     "db-monitor",
	}
}

// Serve implements suture.Service.
func (m *DBMonitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	up := m.check(ctx, true)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			up = m.check(ctx, up)
		}
	}
}

// check pings once and returns the new state. wasUp suppresses repeated logs.
func (m *DBMonitorService) check(ctx context.Context, wasUp bool) bool {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.db.Ping(pingCtx)
	if ctx.Err() != nil {
		return wasUp
	}

	if err != nil {
		metrics.DBUp.Set(0)
		if wasUp {
			logging.Error().Err(err).Msg("Database unreachable")
		}
		return false
	}

	metrics.DBUp.Set(1)
	if !wasUp {
		logging.Info().Msg("Database reachable again")
	}
	return true
}

// String names the service in supervisor events.
func (m *DBMonitorService) String() string {
	return m.name
}
