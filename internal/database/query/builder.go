// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package query

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Builder accumulates one SQL SELECT statement, or a correlated sub-query that
// shares its parent's placeholder numbering.
//
// Example usage:
//
//	q := query.New("SELECT * FROM atomicassets_assets asset")
//	q.Equal("asset.contract", "atomicassets")
//	q.EqualMany("asset.owner", []any{"alice", "bob"})
//	q.Append("ORDER BY asset.asset_id DESC")
//	q.Paginate(1, 100)
//	sql, args := q.Build(), q.Values()
//	// SELECT * FROM atomicassets_assets asset WHERE asset.contract = $1
//	//   AND asset.owner = ANY($2) ORDER BY asset.asset_id DESC LIMIT $3 OFFSET $4
//
// A Builder is not safe for concurrent use and is consumed once per request.
type Builder struct {
	base       string
	joins      []string
	conditions []string
	groupBy    []string
	having     []string
	tail       []string
	params     *Params
}

// New creates a builder for base (the SELECT ... FROM ... part) with an empty
// parameter array.
func New(base string) *Builder {
	return &Builder{base: base, params: NewParams()}
}

// Sub creates a sub-query builder sharing this builder's parameter array.
// Placeholders added through either builder are numbered from one sequence.
func (b *Builder) Sub(base string) *Builder {
	return &Builder{base: base, params: b.params}
}

// Detached creates a sub-query builder seeded with a copy of this builder's
// current parameters. Its values are merged back with SetVars before the parent
// binds anything else.
func (b *Builder) Detached(base string) *Builder {
	return &Builder{base: base, params: NewParams(b.params.values...)}
}

// SetVars replaces the parameter array with values built by a detached
// sub-query. values must extend the current array; anything else would
// renumber placeholders already emitted and panics.
func (b *Builder) SetVars(values []any) {
	current := b.params.values
	if len(values) < len(current) {
		panic(fmt.Sprintf("query: SetVars with %d values would drop bound parameters (have %d)", len(values), len(current)))
	}
	for i := range current {
		if !reflect.DeepEqual(current[i], values[i]) {
			panic(fmt.Sprintf("query: SetVars changes bound parameter %s", Placeholder(i+1)))
		}
	}
	b.params.values = append(b.params.values[:0:0], values...)
}

// AddVariable binds v and returns its placeholder.
func (b *Builder) AddVariable(v any) string {
	return b.params.Add(v)
}

// AddCondition appends a boolean SQL fragment to the AND chain.
func (b *Builder) AddCondition(fragment string) *Builder {
	b.conditions = append(b.conditions, fragment)
	return b
}

// Equal adds "column = $n".
func (b *Builder) Equal(column string, v any) *Builder {
	return b.AddCondition(column + " = " + b.AddVariable(v))
}

// EqualMany adds an array membership test. An empty list matches no rows.
func (b *Builder) EqualMany(column string, values []any) *Builder {
	if len(values) == 0 {
		return b.AddCondition("FALSE")
	}
	return b.AddCondition(column + " = ANY(" + b.AddVariable(pq.Array(textArray(values))) + ")")
}

// NotMany adds a negated array membership test. An empty list matches all rows.
func (b *Builder) NotMany(column string, values []any) *Builder {
	if len(values) == 0 {
		return b.AddCondition("TRUE")
	}
	return b.AddCondition("NOT (" + column + " = ANY(" + b.AddVariable(pq.Array(textArray(values))) + "))")
}

// IsNull adds "column IS NULL".
func (b *Builder) IsNull(column string) *Builder {
	return b.AddCondition(column + " IS NULL")
}

// NotNull adds "column IS NOT NULL".
func (b *Builder) NotNull(column string) *Builder {
	return b.AddCondition(column + " IS NOT NULL")
}

// Join adds an equi-join between two aliases on each shared column.
// Aliases are not checked against the FROM clause.
func (b *Builder) Join(aliasA, aliasB string, columns ...string) *Builder {
	if len(columns) == 0 {
		panic("query: Join requires at least one column")
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = aliasA + "." + c + " = " + aliasB + "." + c
	}
	b.joins = append(b.joins, strings.Join(parts, " AND "))
	return b
}

// Group appends GROUP BY columns.
func (b *Builder) Group(columns ...string) *Builder {
	b.groupBy = append(b.groupBy, columns...)
	return b
}

// Having appends a HAVING expression; multiple expressions are ANDed.
func (b *Builder) Having(expr string) *Builder {
	b.having = append(b.having, expr)
	return b
}

// Append adds a verbatim trailing clause such as ORDER BY.
// Values must be bound with AddVariable, never formatted into tail.
func (b *Builder) Append(tail string) *Builder {
	b.tail = append(b.tail, tail)
	return b
}

// Paginate appends "LIMIT $n OFFSET $m" for a 1-based page.
func (b *Builder) Paginate(page, limit int64) *Builder {
	if page < 1 {
		page = 1
	}
	l := b.AddVariable(limit)
	o := b.AddVariable((page - 1) * limit)
	return b.Append("LIMIT " + l + " OFFSET " + o)
}

// EscapeLikeVariable escapes LIKE wildcards in v. Callers add their own
// surrounding % before binding the result.
func (b *Builder) EscapeLikeVariable(v string) string {
	return EscapeLike(v)
}

// EscapeLike escapes the backslash escape character and the % and _ wildcards.
func EscapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}

// Where renders the AND chain without the WHERE keyword, or "TRUE" when empty.
func (b *Builder) Where() string {
	all := make([]string, 0, len(b.joins)+len(b.conditions))
	all = append(all, b.joins...)
	all = append(all, b.conditions...)
	if len(all) == 0 {
		return "TRUE"
	}
	return strings.Join(all, " AND ")
}

// Build renders the statement.
func (b *Builder) Build() string {
	var sb strings.Builder
	sb.WriteString(b.base)
	if !b.IsEmpty() || len(b.joins) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.Where())
	}
	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}
	if len(b.having) > 0 {
		sb.WriteString(" HAVING ")
		sb.WriteString(strings.Join(b.having, " AND "))
	}
	for _, t := range b.tail {
		sb.WriteByte(' ')
		sb.WriteString(t)
	}
	return sb.String()
}

// Values returns the parameter array in placeholder order.
func (b *Builder) Values() []any {
	return b.params.Values()
}

// Count returns the number of conditions added, excluding joins.
func (b *Builder) Count() int {
	return len(b.conditions)
}

// IsEmpty reports whether no conditions have been added.
func (b *Builder) IsEmpty() bool {
	return len(b.conditions) == 0
}

// textArray renders list elements as text. PostgreSQL casts the array literal
// to the compared column's type, which keeps ids beyond 64 bits exact.
func textArray(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case string:
			out[i] = t
		case int64:
			out[i] = strconv.FormatInt(t, 10)
		case int:
			out[i] = strconv.Itoa(t)
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(t)
		case *big.Int:
			out[i] = t.String()
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}
