// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// BoundaryOptions configures Boundary for one resource.
type BoundaryOptions struct {
	// PrimaryColumn is the id column for ids and lower_bound/upper_bound.
	// Empty disables those parameters.
	PrimaryColumn string

	// PrimaryType is the base type of the primary column. Defaults to id.
	PrimaryType validation.BaseType

	// IDsParam names a resource-specific id list merged with "ids", e.g. "asset_id".
	IDsParam string

	// DateColumn enables after/before. Values are millisecond timestamps.
	DateColumn string

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

func (o BoundaryOptions) primaryType() validation.BaseType {
	if o.PrimaryType == "" {
		return validation.TypeID
	}
	return o.PrimaryType
}

// Boundary adds the exact id set, the primary range and the date range.
// All parts are optional and ANDed:
//
//	primary = ANY(ids)           ids and IDsParam merged, only when non-empty
//	primary >= lower_bound       inclusive
//	primary <  upper_bound       exclusive
//	date    >  after             exclusive
//	date    <  before            exclusive
func Boundary(v validation.Values, q *query.Builder, opts BoundaryOptions) error {
	pt := opts.primaryType()
	schema := validation.Schema{
		{Name: "ids", Spec: validation.FilterSpec{Type: pt, Array: true}},
		{Name: "lower_bound", Spec: validation.FilterSpec{Type: pt, Min: lowerBoundMin(pt)}},
		{Name: "upper_bound", Spec: validation.FilterSpec{Type: pt, Min: lowerBoundMin(pt)}},
		{Name: "before", Spec: validation.FilterSpec{Type: validation.TypeInt, Min: validation.Bound(1)}},
		{Name: "after", Spec: validation.FilterSpec{Type: validation.TypeInt, Min: validation.Bound(1)}},
	}
	if opts.IDsParam != "" && opts.IDsParam != "ids" {
		schema = schema.With(validation.Param{
			Name: opts.IDsParam,
			Spec: validation.FilterSpec{Type: pt, Array: true},
		})
	}

	args, err := validatorOr(opts.Validator).Validate(v, schema)
	if err != nil {
		return err
	}

	if opts.PrimaryColumn != "" {
		ids := args.List("ids")
		if opts.IDsParam != "" && opts.IDsParam != "ids" {
			ids = append(ids, args.List(opts.IDsParam)...)
		}
		if len(ids) > 0 {
			q.EqualMany(opts.PrimaryColumn, ids)
		}
		if args.Has("lower_bound") {
			q.AddCondition(opts.PrimaryColumn + " >= " + q.AddVariable(args["lower_bound"]))
		}
		if args.Has("upper_bound") {
			q.AddCondition(opts.PrimaryColumn + " < " + q.AddVariable(args["upper_bound"]))
		}
	}

	if opts.DateColumn != "" {
		if args.Has("after") {
			q.AddCondition(opts.DateColumn + " > " + q.AddVariable(args["after"]))
		}
		if args.Has("before") {
			q.AddCondition(opts.DateColumn + " < " + q.AddVariable(args["before"]))
		}
	}

	return nil
}

// lowerBoundMin keeps numeric bounds positive; other types have no numeric range.
func lowerBoundMin(t validation.BaseType) *float64 {
	if t == validation.TypeInt {
		return validation.Bound(1)
	}
	return nil
}
