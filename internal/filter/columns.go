// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"strings"

	"github.com/lib/pq"

	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// Column maps a comma-separated request parameter onto a table column.
type Column struct {
	Param  string
	Column string
	Type   validation.BaseType
}

// ColumnsOptions configures Columns.
type ColumnsOptions struct {
	Columns []Column

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

// Columns adds `column = ANY(values)` for every parameter that was sent with
// at least one value. Parameters are validated in declaration order.
func Columns(v validation.Values, q *query.Builder, opts ColumnsOptions) error {
	cols := opts.Columns
	schema := make(validation.Schema, 0, len(cols))
	for _, c := range cols {
		schema = append(schema, validation.Param{
			Name: c.Param,
			Spec: validation.FilterSpec{Type: c.Type, Array: true},
		})
	}

	args, err := validatorOr(opts.Validator).Validate(v, schema)
	if err != nil {
		return err
	}

	for _, c := range cols {
		if args.Has(c.Param) {
			q.EqualMany(c.Column, args.List(c.Param))
		}
	}
	return nil
}

// AccountOptions configures Account.
type AccountOptions struct {
	// Param is the account-name array parameter.
	Param string

	// Columns are ORed; any of them may hold the account.
	Columns []string

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

// Account matches rows where any of the given columns holds one of the
// accounts in the parameter. One array parameter is bound and reused.
func Account(v validation.Values, q *query.Builder, opts AccountOptions) error {
	param, columns := opts.Param, opts.Columns
	args, err := validatorOr(opts.Validator).Validate(v, validation.Schema{
		{Name: param, Spec: validation.FilterSpec{Type: validation.TypeName, Array: true}},
	})
	if err != nil {
		return err
	}
	if !args.Has(param) || len(columns) == 0 {
		return nil
	}

	ph := q.AddVariable(pq.Array(args.Strings(param)))
	terms := make([]string, len(columns))
	for i, col := range columns {
		terms[i] = col + " = ANY(" + ph + ")"
	}
	q.AddCondition("(" + strings.Join(terms, " OR ") + ")")
	return nil
}

func validatorOr(vd *validation.Validator) *validation.Validator {
	if vd == nil {
		return validation.Default()
	}
	return vd
}
