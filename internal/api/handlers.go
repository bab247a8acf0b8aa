// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/nftmirror/internal/config"
	"github.com/tomtom215/nftmirror/internal/database"
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// Pinger is implemented by executors that can report database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
type Handler struct {
	executor  database.Executor
	validator *validation.Validator
	config    *config.Config
	resources map[string]*resource
	startTime time.Time
}

// NewHandler creates a handler serving every resource through executor with
// the built-in parameter types. It panics if a resource schema is malformed.
func NewHandler(executor database.Executor, cfg *config.Config) *Handler {
	return NewHandlerWithValidator(executor, cfg, validation.Default())
}

// NewHandlerWithValidator is NewHandler with an explicit validator. Paging
// parameters and every resource filter are validated through it.
func NewHandlerWithValidator(executor database.Executor, cfg *config.Config, vd *validation.Validator) *Handler {
	return &Handler{
		executor:  executor,
		validator: vd,
		config:    cfg,
		resources: newResources(cfg.API, vd),
		startTime: time.Now(),
	}
}

// parse reads the request values and validates the paging schema.
func (h *Handler) parse(r *http.Request, res *resource) (validation.Values, validation.Args, error) {
	values, err := requestValues(r)
	if err != nil {
		return nil, nil, &formError{cause: err}
	}
	args, err := h.validator.Validate(values, res.schema)
	if err != nil {
		return nil, nil, err
	}
	return values, args, nil
}

// List returns the handler for GET /<resource>.
func (h *Handler) List(resourceName string) http.HandlerFunc {
	res := h.mustResource(resourceName)
	return func(w http.ResponseWriter, r *http.Request) {
		values, args, err := h.parse(r, res)
		if err != nil {
			respondError(w, r, res.name, err)
			return
		}

		q := query.New(res.selectSQL())
		if err := res.apply(h.validator, values, q); err != nil {
			respondError(w, r, res.name, err)
			return
		}
		q.Append(orderBy(res, args))
		q.Paginate(args.IntOr("page", 1), args.IntOr("limit", int64(h.config.API.DefaultPageSize)))

		rows, err := h.executor.Query(database.WithResource(r.Context(), res.name), q.Build(), q.Values())
		if err != nil {
			respondError(w, r, res.name, err)
			return
		}

		NewResponseWriter(w, r).Success(rows)
	}
}

// Count returns the handler for GET /<resource>/_count. It accepts the same
// parameters as List. Paging and sorting are validated so both routes reject
// the same input, then ignored.
func (h *Handler) Count(resourceName string) http.HandlerFunc {
	res := h.mustResource(resourceName)
	return func(w http.ResponseWriter, r *http.Request) {
		values, _, err := h.parse(r, res)
		if err != nil {
			respondError(w, r, res.name, err)
			return
		}

		q := query.New(res.countSQL())
		if err := res.apply(h.validator, values, q); err != nil {
			respondError(w, r, res.name, err)
			return
		}

		rows, err := h.executor.Query(database.WithResource(r.Context(), res.name+"_count"), q.Build(), q.Values())
		if err != nil {
			respondError(w, r, res.name, err)
			return
		}

		var count int64
		if len(rows) > 0 {
			count = countValue(rows[0]["count"])
		}
		NewResponseWriter(w, r).Success(CountResult{Count: count})
	}
}

func (h *Handler) mustResource(name string) *resource {
	res, ok := h.resources[name]
	if !ok {
		panic("api: unknown resource " + name)
	}
	return res
}

// countValue reads COUNT(*) as returned by the driver.
func countValue(v any) int64 {
	switch c := v.(type) {
	case int64:
		return c
	case int:
		return int64(c)
	case float64:
		return int64(c)
	case string:
		n, _ := strconv.ParseInt(c, 10, 64)
		return n
	default:
		return 0
	}
}
