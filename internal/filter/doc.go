// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package filter provides the request filters shared by the read endpoints.
//
// Each filter validates its own parameters from the raw request values and
// adds conditions to a *query.Builder:
//
//	q := query.New("SELECT * FROM atomicassets_assets asset")
//	if err := filter.Boundary(values, q, filter.BoundaryOptions{
//	    PrimaryColumn: "asset.asset_id",
//	    IDsParam:      "asset_id",
//	}); err != nil {
//	    return err // *validation.ValidationError
//	}
//	filter.List(values, q, filter.ListOptions{Name: "collection", Column: "asset.collection_name"})
//
// Filters hold no state. Applying one twice adds its conditions twice.
package filter
