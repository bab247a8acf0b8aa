// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// ListOptions configures an allow/deny list over one column.
type ListOptions struct {
	// Name is the parameter prefix: <Name>_whitelist and <Name>_blacklist.
	Name string

	// Column is compared against the list.
	Column string

	// Type of the list elements. Defaults to name.
	Type validation.BaseType

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

// List adds an allow/deny list condition.
//
// With both lists the allowed set is whitelist minus blacklist, rendered as one
// membership test (an empty difference matches nothing). A lone whitelist adds
// a membership test, a lone blacklist a non-membership test.
func List(v validation.Values, q *query.Builder, opts ListOptions) error {
	t := opts.Type
	if t == "" {
		t = validation.TypeName
	}
	white, black := opts.Name+"_whitelist", opts.Name+"_blacklist"

	args, err := validatorOr(opts.Validator).Validate(v, validation.Schema{
		{Name: white, Spec: validation.FilterSpec{Type: t, Array: true}},
		{Name: black, Spec: validation.FilterSpec{Type: t, Array: true}},
	})
	if err != nil {
		return err
	}

	hasWhite, hasBlack := args.Has(white), args.Has(black)
	switch {
	case hasWhite && hasBlack:
		q.EqualMany(opts.Column, difference(args.List(white), args.Strings(black)))
	case hasWhite:
		q.EqualMany(opts.Column, args.List(white))
	case hasBlack:
		q.NotMany(opts.Column, args.List(black))
	}
	return nil
}

// difference returns the elements of list whose text form is not in exclude,
// keeping list order.
func difference(list []any, exclude []string) []any {
	drop := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		drop[e] = struct{}{}
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		if _, skip := drop[validation.Text(item)]; !skip {
			out = append(out, item)
		}
	}
	return out
}
