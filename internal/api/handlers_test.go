// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/nftmirror/internal/database"
	"github.com/tomtom215/nftmirror/internal/metrics"
	"github.com/tomtom215/nftmirror/internal/validation"
)

func TestList_DefaultQuery(t *testing.T) {
	exec := &fakeExecutor{rows: []database.Row{{"asset_id": "1"}}}
	srv := newTestServer(t, exec)

	rec, body := doGet(t, srv, "/atomicassets/v1/assets")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotZero(t, body["query_time"])
	assert.Equal(t, []any{map[string]any{"asset_id": "1"}}, body["data"])

	call := exec.lastCall(t)
	assert.Equal(t,
		"SELECT asset.*, template.immutable_data AS template_immutable_data FROM atomicassets_assets asset "+
			"LEFT JOIN atomicassets_templates template ON template.contract = asset.contract AND template.template_id = asset.template_id "+
			"WHERE asset.contract = $1 "+
			"ORDER BY asset.asset_id DESC NULLS LAST, asset.asset_id DESC LIMIT $2 OFFSET $3",
		call.sql)
	assert.Equal(t, []any{"atomicassets", int64(100), int64(0)}, call.values)
}

func TestList_FiltersAndPaging(t *testing.T) {
	exec := &fakeExecutor{}
	srv := newTestServer(t, exec)

	rec, _ := doGet(t, srv, "/atomicassets/v1/assets?owner=alice&after=100&before=200&page=3&limit=10&order=asc&sort=minted")
	require.Equal(t, http.StatusOK, rec.Code)

	call := exec.lastCall(t)
	assert.Contains(t, call.sql, "WHERE asset.contract = $1 AND asset.owner = ANY($2) AND asset.minted_at_time > $3 AND asset.minted_at_time < $4")
	assert.Contains(t, call.sql, "ORDER BY asset.minted_at_time ASC NULLS LAST, asset.asset_id ASC LIMIT $5 OFFSET $6")
	assert.Equal(t, []any{
		"atomicassets",
		pq.Array([]string{"alice"}),
		int64(100),
		int64(200),
		int64(10),
		int64(20),
	}, call.values)
}

func TestList_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		param string
	}{
		{"limit above max", "limit=1001", "limit"},
		{"limit zero", "limit=0", "limit"},
		{"page not int", "page=two", "page"},
		{"unknown sort", "sort=price", "sort"},
		{"bad order", "order=up", "order"},
		{"bad owner name", "owner=UPPER", "owner"},
		{"bad asset id", "asset_id=12a", "asset_id"},
		{"bad hide_offers", "hide_offers=maybe", "hide_offers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			srv := newTestServer(t, exec)
			counter := metrics.FilterValidationFailures.WithLabelValues(tt.param)
			before := testutil.ToFloat64(counter)

			rec, body := doGet(t, srv, "/atomicassets/v1/assets?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Invalid value for parameter "+tt.param, body["message"])
			assert.Zero(t, exec.callCount(), "executor must not run for rejected requests")
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestList_ExecutorError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("pq: relation does not exist")}
	srv := newTestServer(t, exec)

	rec, body := doGet(t, srv, "/atomicmarket/v1/sales")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.Equal(t, 1, exec.callCount(), "executor errors are not retried")
}

func TestList_EveryResourceRoutes(t *testing.T) {
	for _, prefix := range []struct {
		path      string
		resources []string
		contract  string
	}{
		{"/atomicassets/v1/", atomicAssetsResources, "atomicassets"},
		{"/atomicmarket/v1/", atomicMarketResources, "atomicmarket"},
	} {
		for _, name := range prefix.resources {
			t.Run(name, func(t *testing.T) {
				exec := &fakeExecutor{}
				srv := newTestServer(t, exec)

				rec, _ := doGet(t, srv, prefix.path+name)
				require.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, prefix.contract, exec.lastCall(t).values[0])

				rec, _ = doGet(t, srv, prefix.path+name+"/_count")
				require.Equal(t, http.StatusOK, rec.Code)
				assert.True(t, strings.HasPrefix(exec.lastCall(t).sql, "SELECT COUNT(*) AS count FROM "))
			})
		}
	}
}

func TestCount(t *testing.T) {
	exec := &fakeExecutor{rows: []database.Row{{"count": int64(42)}}}
	srv := newTestServer(t, exec)

	rec, body := doGet(t, srv, "/atomicassets/v1/offers/_count?account=alice&state=0,1&page=4&limit=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"count": float64(42)}, body["data"])

	call := exec.lastCall(t)
	assert.Equal(t,
		"SELECT COUNT(*) AS count FROM atomicassets_offers offer WHERE offer.contract = $1 AND offer.state = ANY($2) "+
			"AND (offer.sender = ANY($3) OR offer.recipient = ANY($3))",
		call.sql)
	assert.NotContains(t, call.sql, "LIMIT")
}

func TestCount_ValueTypes(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{int64(7), 7},
		{7, 7},
		{float64(7), 7},
		{"7", 7},
		{nil, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countValue(tt.in), "countValue(%#v)", tt.in)
	}
}

func TestList_LinkedAssetsSubQuery(t *testing.T) {
	exec := &fakeExecutor{}
	srv := newTestServer(t, exec)

	rec, _ := doGet(t, srv, "/atomicmarket/v1/sales?asset_id=1099511627776,5&seller=bob")
	require.Equal(t, http.StatusOK, rec.Code)

	call := exec.lastCall(t)
	assert.Contains(t, call.sql,
		"listing.seller = ANY($2) AND EXISTS (SELECT * FROM atomicassets_offers_assets offer_asset "+
			"WHERE offer_asset.offer_id = listing.offer_id AND offer_asset.contract = listing.assets_contract "+
			"AND offer_asset.asset_id = ANY($3))")
	assert.Equal(t, pq.Array([]string{"1099511627776", "5"}), call.values[2])
}

func TestList_HideOffersAndData(t *testing.T) {
	exec := &fakeExecutor{}
	srv := newTestServer(t, exec)

	rec, _ := doGet(t, srv, "/atomicassets/v1/assets?hide_offers=true&"+url.Values{"data.rarity": {"rare"}}.Encode())
	require.Equal(t, http.StatusOK, rec.Code)

	call := exec.lastCall(t)
	assert.Contains(t, call.sql, "(asset.mutable_data || asset.immutable_data || COALESCE(template.immutable_data, '{}')) @> $2::jsonb")
	assert.Contains(t, call.sql, "NOT EXISTS (SELECT * FROM atomicassets_offers offer, atomicassets_offers_assets offer_asset")
	assert.Equal(t, `{"rarity":"rare"}`, call.values[1])
}

func TestList_FormBodyOverridesQuery(t *testing.T) {
	exec := &fakeExecutor{}
	srv := newTestServer(t, exec)

	req := httptest.NewRequest(http.MethodPost, "/atomicassets/v1/collections?limit=5&page=2", strings.NewReader("limit=7"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	values := exec.lastCall(t).values
	assert.Equal(t, []any{int64(7), int64(7)}, values[len(values)-2:], "body limit wins, query page kept")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeExecutor{})
	rec, body := doGet(t, srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["data"].(map[string]any)["status"])

	srv = newTestServer(t, &fakeExecutor{pingErr: errors.New("connection refused")})
	rec, body = doGet(t, srv, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["data"].(map[string]any)["status"])
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeExecutor{})
	rec, body := doGet(t, srv, "/atomicassets/v1/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, &fakeExecutor{})
	rec, _ := doGet(t, srv, "/health")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 1

	router := NewRouter(NewHandler(&fakeExecutor{}, cfg), NewChiMiddleware(ChiMiddlewareConfigFromSecurity(cfg.Security)))
	srv := router.SetupChi()

	rec, _ := doGet(t, srv, "/atomicmarket/v1/auctions")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doGet(t, srv, "/atomicmarket/v1/auctions")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too Many Requests", body["message"])
}

func TestNewResources_SchemasValid(t *testing.T) {
	assert.NotPanics(t, func() { newResources(testConfig().API, validation.Default()) })

	res := newResources(testConfig().API, validation.Default())
	assert.Len(t, res, len(atomicAssetsResources)+len(atomicMarketResources))
	for name, r := range res {
		_, ok := r.sort[r.defaultSort]
		assert.True(t, ok, "%s: default sort %q not in sort map", name, r.defaultSort)
	}
}

func TestList_PageBounds(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"offset would overflow int64", "limit=1000&page=92233720368547759"},
		{"page beyond int64", "limit=1000&page=99999999999999999999"},
		{"page beyond int64 with default limit", "page=99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			srv := newTestServer(t, exec)

			rec, body := doGet(t, srv, "/atomicassets/v1/assets?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid value for parameter page", body["message"])
			assert.Zero(t, exec.callCount())
		})
	}
}

func TestList_LastPageOffsetFits(t *testing.T) {
	exec := &fakeExecutor{}
	srv := newTestServer(t, exec)

	page := int64(maxPage(testConfig().API.MaxPageSize))
	rec, _ := doGet(t, srv, fmt.Sprintf("/atomicassets/v1/assets?limit=1000&page=%d", page))
	require.Equal(t, http.StatusOK, rec.Code)

	values := exec.lastCall(t).values
	offset, ok := values[len(values)-1].(int64)
	require.True(t, ok)
	assert.Equal(t, (page-1)*1000, offset)
	assert.Positive(t, offset)
}

func TestMaxPage(t *testing.T) {
	tests := []struct {
		size int
		want float64
	}{
		{1000, 1 << 53},
		{10_000_000, 922337203685},
		{1, 1 << 53},
		{0, 1 << 53},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maxPage(tt.size), "size %d", tt.size)
	}
}

func TestCount_RejectsInvalidPaging(t *testing.T) {
	tests := []struct {
		query string
		param string
	}{
		{"page=0", "page"},
		{"limit=5000", "limit"},
		{"order=sideways", "order"},
		{"sort=nonsense", "sort"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			exec := &fakeExecutor{}
			srv := newTestServer(t, exec)

			rec, body := doGet(t, srv, "/atomicassets/v1/offers/_count?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid value for parameter "+tt.param, body["message"])
			assert.Zero(t, exec.callCount())
		})
	}
}

func TestList_MalformedFormBody(t *testing.T) {
	for _, path := range []string{"/atomicassets/v1/collections", "/atomicassets/v1/collections/_count"} {
		t.Run(path, func(t *testing.T) {
			exec := &fakeExecutor{}
			srv := newTestServer(t, exec)

			req := httptest.NewRequest(http.MethodPost, path+"?limit=5", strings.NewReader("limit=%zz"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request body", body["message"])
			assert.Zero(t, exec.callCount())
		})
	}
}

func TestValidationFailureSeriesBounded(t *testing.T) {
	srv := newTestServer(t, &fakeExecutor{})
	before := testutil.CollectAndCount(metrics.FilterValidationFailures)
	counter := metrics.FilterValidationFailures.WithLabelValues("data_attribute")
	hits := testutil.ToFloat64(counter)

	for i := 0; i < 50; i++ {
		rec, body := doGet(t, srv, fmt.Sprintf("/atomicassets/v1/assets?data:number.k%d=x", i))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, fmt.Sprintf("Invalid value for parameter data:number.k%d", i), body["message"])
	}

	assert.LessOrEqual(t, testutil.CollectAndCount(metrics.FilterValidationFailures), before+1)
	assert.Equal(t, hits+50, testutil.ToFloat64(counter))
}

func TestValidationLabel(t *testing.T) {
	assert.Equal(t, "limit", validationLabel("limit"))
	assert.Equal(t, "collection_whitelist", validationLabel("collection_whitelist"))
	assert.Equal(t, "data_attribute", validationLabel("immutable_data:text.anything"))
}

func TestHandler_InjectedValidator(t *testing.T) {
	reg := validation.DefaultRegistry()
	reg.Register(validation.TypeName, func(raw string, _ validation.FilterSpec) (any, error) {
		return strings.ToLower(raw), nil
	})

	exec := &fakeExecutor{}
	cfg := testConfig()
	handler := NewHandlerWithValidator(exec, cfg, validation.New(reg))
	srv := NewRouter(handler, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(cfg.Security))).SetupChi()

	rec, _ := doGet(t, srv, "/atomicassets/v1/assets?owner=ALICE&collection_whitelist=ALPHA")
	require.Equal(t, http.StatusOK, rec.Code)
	values := exec.lastCall(t).values
	assert.Equal(t, pq.Array([]string{"alice"}), values[1])
	assert.Equal(t, pq.Array([]string{"alpha"}), values[2])

	rec, _ = doGet(t, newTestServer(t, &fakeExecutor{}), "/atomicassets/v1/assets?owner=ALICE")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
