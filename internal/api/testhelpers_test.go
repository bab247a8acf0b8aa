// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/nftmirror/internal/config"
	"github.com/tomtom215/nftmirror/internal/database"
)

// fakeExecutor records queries and answers with canned rows.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   []fakeCall
	rows    []database.Row
	err     error
	pingErr error
}

type fakeCall struct {
	sql    string
	values []any
}

func (f *fakeExecutor) Query(_ context.Context, sql string, values []any) ([]database.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{sql: sql, values: values})
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeExecutor) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeExecutor) lastCall(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "executor was not called")
	return f.calls[len(f.calls)-1]
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			DefaultPageSize:      100,
			MaxPageSize:          1000,
			AtomicAssetsContract: "atomicassets",
			AtomicMarketContract: "atomicmarket",
		},
		Security: config.SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
}

func newTestServer(t *testing.T, exec database.Executor) http.Handler {
	t.Helper()
	cfg := testConfig()
	router := NewRouter(NewHandler(exec, cfg), NewChiMiddleware(ChiMiddlewareConfigFromSecurity(cfg.Security)))
	return router.SetupChi()
}

func doGet(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec, body
}
