// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// NameMatchOptions configures NameMatch.
type NameMatchOptions struct {
	// Param defaults to "match".
	Param  string
	Column string

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

// NameMatch adds a case-insensitive substring match of one parameter against Column.
func NameMatch(v validation.Values, q *query.Builder, opts NameMatchOptions) error {
	param := opts.Param
	if param == "" {
		param = "match"
	}
	args, err := validatorOr(opts.Validator).Validate(v, validation.Schema{
		{Name: param, Spec: validation.FilterSpec{Type: validation.TypeString, Min: validation.Bound(1)}},
	})
	if err != nil {
		return err
	}
	if !args.Has(param) {
		return nil
	}
	pattern := "%" + q.EscapeLikeVariable(args.String(param)) + "%"
	q.AddCondition(opts.Column + " ILIKE " + q.AddVariable(pattern))
	return nil
}
