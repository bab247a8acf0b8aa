// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package query

import (
	"math/big"
	"strconv"
)

// Params is the ordered parameter array of a statement and the owner of its
// placeholder numbering. A parent builder and every sub-query built with Sub
// share one *Params, so placeholders stay sequential without recounting.
type Params struct {
	values []any
}

// NewParams returns a parameter array seeded with values. Seed values keep
// their positions, so the next placeholder is $len(seed)+1.
func NewParams(seed ...any) *Params {
	p := &Params{values: make([]any, 0, len(seed)+8)}
	p.values = append(p.values, seed...)
	return p
}

// Add appends v and returns its placeholder.
func (p *Params) Add(v any) string {
	p.values = append(p.values, bindable(v))
	return Placeholder(len(p.values))
}

// Len returns the number of bound parameters.
func (p *Params) Len() int {
	return len(p.values)
}

// Values returns a copy of the parameter array in placeholder order.
func (p *Params) Values() []any {
	out := make([]any, len(p.values))
	copy(out, p.values)
	return out
}

// Placeholder renders the PostgreSQL positional placeholder for index n (1-based).
func Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// bindable converts values database/sql cannot send natively.
// Integers beyond 64 bits travel as decimal text and are cast by the server.
func bindable(v any) any {
	if b, ok := v.(*big.Int); ok {
		return b.String()
	}
	return v
}
