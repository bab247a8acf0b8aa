// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/tomtom215/nftmirror/internal/config"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// requestValues merges the query string with a parsed form body. Body keys
// override query keys. A body that cannot be parsed is an error.
func requestValues(r *http.Request) (validation.Values, error) {
	values := validation.FromURLValues(r.URL.Query())
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if len(r.PostForm) > 0 {
		values = values.Merge(validation.FromURLValues(r.PostForm))
	}
	return values, nil
}

// maxPage keeps (page-1)*limit within int64 for every allowed limit. The
// bound stays below 2^53 so it is exact as a float64.
func maxPage(maxPageSize int) float64 {
	if maxPageSize < 1 {
		maxPageSize = 1
	}
	n := math.MaxInt64 / int64(maxPageSize)
	if n > 1<<53 {
		n = 1 << 53
	}
	return float64(n)
}

// pagingSchema declares page, limit, order and sort. sortKeys are the keys of
// the resource's sort map.
func pagingSchema(cfg config.APIConfig, sortKeys []string, defaultSort string) validation.Schema {
	keys := append([]string(nil), sortKeys...)
	sort.Strings(keys)

	return validation.Schema{
		{Name: "page", Spec: validation.FilterSpec{
			Type:    validation.TypeInt,
			Min:     validation.Bound(1),
			Max:     validation.Bound(maxPage(cfg.MaxPageSize)),
			Default: int64(1),
		}},
		{Name: "limit", Spec: validation.FilterSpec{
			Type:    validation.TypeInt,
			Min:     validation.Bound(1),
			Max:     validation.Bound(float64(cfg.MaxPageSize)),
			Default: int64(cfg.DefaultPageSize),
		}},
		{Name: "order", Spec: validation.FilterSpec{
			Type: validation.TypeString, AllowedValues: []string{"asc", "desc"}, Default: "desc",
		}},
		{Name: "sort", Spec: validation.FilterSpec{
			Type: validation.TypeString, AllowedValues: keys, Default: defaultSort,
		}},
	}
}

// orderBy renders the ORDER BY clause from validated args. Only columns from
// the resource's sort map reach the SQL text.
func orderBy(res *resource, args validation.Args) string {
	column := res.sort[args.String("sort")]
	if column == "" {
		column = res.sort[res.defaultSort]
	}
	direction := strings.ToUpper(args.String("order"))
	return "ORDER BY " + column + " " + direction + " NULLS LAST, " + res.primary + " " + direction
}
