// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/nftmirror/internal/filter"
	"github.com/tomtom215/nftmirror/internal/logging"
	"github.com/tomtom215/nftmirror/internal/metrics"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// respondError maps a handler error onto the response. Rejected parameters are
// client faults and return 400 with the fixed message; anything else came from
// the executor and is logged and hidden behind a 500.
func respondError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	rw := NewResponseWriter(w, r)

	var ferr *formError
	if errors.As(err, &ferr) {
		logging.Ctx(r.Context()).Debug().
			Str("resource", resource).
			Err(ferr.cause).
			Msg("Rejected request body")
		rw.BadRequest("Invalid request body")
		return
	}

	if verr, ok := validation.AsValidationError(err); ok {
		metrics.RecordValidationFailure(validationLabel(verr.Param))
		logging.Ctx(r.Context()).Debug().
			Str("resource", resource).
			Str("param", verr.Param).
			Err(verr.Unwrap()).
			Msg("Rejected request parameter")
		rw.Error(verr.StatusCode(), verr.Error())
		return
	}

	logging.Ctx(r.Context()).Error().
		Str("resource", resource).
		Err(err).
		Msg("Query failed")
	rw.InternalError()
}

// formError wraps a request body that could not be parsed.
type formError struct {
	cause error
}

func (e *formError) Error() string { return e.cause.Error() }

func (e *formError) Unwrap() error { return e.cause }

// validationLabel bounds the metric label set. JSON attribute keys are chosen
// by the client and share one series.
func validationLabel(param string) string {
	if filter.IsDataKey(param) {
		return "data_attribute"
	}
	return param
}
