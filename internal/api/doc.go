// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

/*
Package api provides the read-only HTTP API over the PostgreSQL mirror.

Routes:

	GET /health
	GET /metrics
	GET /atomicassets/v1/{assets,collections,schemas,templates,offers,transfers}
	GET /atomicassets/v1/<resource>/_count
	GET /atomicmarket/v1/{sales,auctions,buyoffers}
	GET /atomicmarket/v1/<resource>/_count

Every list route accepts page, limit, order and sort plus the filters of its
resource. Parameters come from the query string; routes also accept POST, and
a form body overrides query keys it repeats. A request is handled in one pass:

	values, err := requestValues(r)                        // malformed body: 400
	args, err := h.validator.Validate(values, res.schema)  // page, limit, order, sort
	q := query.New(res.selectSQL())
	res.apply(h.validator, values, q)                      // filter.Boundary, filter.List, ...
	q.Append("ORDER BY ...")
	q.Paginate(page, limit)
	rows, err := executor.Query(ctx, q.Build(), q.Values())

Responses use one envelope:

	{"success": true, "data": [...], "query_time": 1718000000000}
	{"success": false, "message": "Invalid value for parameter limit"}

A rejected parameter is a 400 naming the parameter. The _count routes
validate page, limit, order and sort too but do not use them. Executor failures are
logged with the request id and returned as a 500 without detail.
*/
package api
