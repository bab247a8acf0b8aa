// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

// Package validation converts untyped request parameters into typed, bounds-checked
// and defaulted values according to a static per-endpoint schema.
//
// Every read endpoint declares the parameters it accepts as a Schema. At request time
// the raw string values (query string merged with the form body) are run through a
// Validator, which yields an Args map that the filter predicates and the query
// builder consume.
//
// # Overview
//
// The package provides:
//   - FilterSpec / Schema: static parameter declarations (type, array form, bounds,
//     allowed values, default)
//   - Registry: the explicit type -> coercion function table
//   - Validator: applies a schema to request values, fail-fast per parameter
//   - ValidationError: uniform client error carrying the parameter name
//   - Schema sanity checks using go-playground/validator v10
//
// # Quick Start
//
//	var schema = validation.Schema{
//	    {Name: "page", Spec: validation.FilterSpec{Type: validation.TypeInt, Min: validation.Bound(1), Default: int64(1)}},
//	    {Name: "limit", Spec: validation.FilterSpec{Type: validation.TypeInt, Min: validation.Bound(1), Max: validation.Bound(100), Default: int64(100)}},
//	    {Name: "collection_name", Spec: validation.FilterSpec{Type: validation.TypeName, Array: true}},
//	}
//
//	args, err := validation.Validate(validation.FromURLValues(r.URL.Query()), schema)
//	if err != nil {
//	    // err is *validation.ValidationError: "Invalid value for parameter limit"
//	}
//	page, _ := args.Int("page")
//
// # Base Types
//
//	string  length bounds (runes) and optional allowed values
//	int     optional leading '-' and digits of any length, numeric bounds
//	float   sign, digits, fraction and exponent, numeric bounds
//	bool    true/1, false/0, or "empty" meaning no value
//	name    EOSIO account name: 1-12 of [.1-5a-z] plus an optional [.1-5a-j]
//	id      "null" (any case) or an all-digit string of any length
//
// # Missing Values
//
// A missing or empty raw value resolves to the declared default. For array specs the
// result is always a slice: the default when it is itself a slice, otherwise an empty
// slice. Array results are never nil.
//
// # Errors
//
// The first parameter that fails coercion, bounds or allowed-value checks aborts the
// whole pass with a *ValidationError whose message is exactly
// "Invalid value for parameter <name>". There is no batched mode.
//
// Dispatching to a type that is not in the registry is a programming error and
// panics.
//
// # Thread Safety
//
// Validator and Registry are safe for concurrent use once construction and
// registration are complete. Args values are created per request and never shared.
//
// # See Also
//
//   - internal/filter: domain predicates that run their own validation pass
//   - internal/database/query: the builder that consumes validated arguments
//   - github.com/go-playground/validator/v10: schema declaration checks
package validation
