// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_assets", "timeout"))

	RecordDBQuery("test_assets", 20*time.Millisecond, "")
	RecordDBQuery("test_assets", 30*time.Millisecond, "timeout")

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_assets", "timeout")); got != before+1 {
		t.Errorf("db_query_errors_total = %v, want %v", got, before+1)
	}
	if n := testutil.CollectAndCount(DBQueryDuration, "db_query_duration_seconds"); n == 0 {
		t.Error("expected db_query_duration_seconds series")
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/test/route", "200")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("GET", "/test/route", "200", 5*time.Millisecond)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("api_requests_total = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordValidationFailure(t *testing.T) {
	c := FilterValidationFailures.WithLabelValues("test_param")
	before := testutil.ToFloat64(c)

	RecordValidationFailure("test_param")

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("filter_validation_failures_total = %v, want %v", got, before+1)
	}
}
