// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package validation

import (
	"errors"
	"net/http"
)

// ValidationError reports the first request parameter that failed validation.
// The message format is fixed: "Invalid value for parameter <name>".
type ValidationError struct {
	Param string
	cause error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "Invalid value for parameter " + e.Param
}

// Unwrap exposes the coercion failure for logging. It is never shown to clients.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// StatusCode is the HTTP status the API boundary maps this error to.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
