// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package query builds parameterized PostgreSQL SELECT statements.
//
// Every value reaches SQL text only as a $n placeholder. The Builder keeps
// joins, conditions, GROUP BY, HAVING and trailing clauses in separate fields
// and renders them in that order.
//
// # Overview
//
//	q := query.New("SELECT * FROM atomicassets_assets asset")
//	q.Equal("asset.contract", "atomicassets")
//	q.EqualMany("asset.collection_name", []any{"alpha", "beta"})
//	q.Append("ORDER BY asset.asset_id DESC")
//	q.Paginate(2, 100)
//	rows, err := executor.Query(ctx, q.Build(), q.Values())
//
// # Membership Tests
//
// EqualMany and NotMany bind the list as one PostgreSQL array parameter
// (lib/pq) and compare with ANY. The empty cases are deliberately asymmetric:
//
//	EqualMany(col, nil)  // FALSE: an empty allow list admits nothing
//	NotMany(col, nil)    // TRUE:  an empty deny list excludes nothing
//
// Allow/deny list filters depend on this, so neither case is a no-op.
//
// # Sub-queries
//
// A correlated sub-query can share the parent's numbering directly:
//
//	sub := q.Sub("SELECT * FROM atomicassets_offers offer")
//	sub.Equal("offer.state", 0)
//	q.AddCondition("NOT EXISTS (" + sub.Build() + ")")
//
// or be built from a seeded copy and merged back:
//
//	sub := q.Detached("SELECT ...")
//	sub.Equal("offer.state", 0)
//	q.AddCondition("NOT EXISTS (" + sub.Build() + ")")
//	q.SetVars(sub.Values())
//
// SetVars panics when the merged array does not extend the parent's, since
// already rendered placeholders would point at the wrong values.
//
// # Thread Safety
//
// Builder instances are not thread-safe. Create one per request.
package query
