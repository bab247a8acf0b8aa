// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package database

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/lib/pq"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/nftmirror/internal/logging"
)

// queryCanceled is the SQLSTATE PostgreSQL reports when statement_timeout fires.
const queryCanceled = "57014"

// Error types used for the db_query_errors_total label.
const (
	errTypeTimeout  = "timeout"
	errTypeCanceled = "canceled"
	errTypeRejected = "rejected"
	errTypeQuery    = "query"
)

// classifyError maps a query error to its metric label. nil maps to "".
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	var pqErr *pq.Error
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return errTypeRejected
	case errors.Is(err, context.DeadlineExceeded):
		return errTypeTimeout
	case errors.Is(err, context.Canceled):
		return errTypeCanceled
	case errors.As(err, &pqErr) && string(pqErr.Code) == queryCanceled:
		return errTypeTimeout
	default:
		return errTypeQuery
	}
}

// isCallerFault reports errors caused by the client going away. They say
// nothing about database health and must not trip the breaker.
func isCallerFault(err error) bool {
	return errors.Is(err, context.Canceled)
}

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, logger *slog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger != nil {
			logger.Error("failed to close resource",
				"type", resourceType,
				"error", err)
		} else {
			logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
		}
	}
}
