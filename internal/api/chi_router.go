// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/nftmirror/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, chiMw *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
	}
}

// atomicAssetsResources and atomicMarketResources list the resources served
// under each API prefix.
var (
	atomicAssetsResources = []string{"assets", "collections", "schemas", "templates", "offers", "transfers"}
	atomicMarketResources = []string{"sales", "auctions", "buyoffers"}
)

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)        // X-Request-ID in header and logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound()
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	router.mountResources(r, "/atomicassets/v1", atomicAssetsResources)
	router.mountResources(r, "/atomicmarket/v1", atomicMarketResources)

	return r
}

func (router *Router) mountResources(r chi.Router, prefix string, resources []string) {
	r.Route(prefix, func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit(prefix))
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		// POST accepts the same parameters as a form body.
		for _, name := range resources {
			listHandler, countHandler := router.handler.List(name), router.handler.Count(name)
			r.Get("/"+name, listHandler)
			r.Post("/"+name, listHandler)
			r.Get("/"+name+"/_count", countHandler)
			r.Post("/"+name+"/_count", countHandler)
		}
	})
}
