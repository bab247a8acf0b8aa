// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package validation

import (
	"net/url"
	"strings"
)

// BaseType names a registered coercion function.
type BaseType string

// Built-in base types.
const (
	TypeString BaseType = "string"
	TypeInt    BaseType = "int"
	TypeFloat  BaseType = "float"
	TypeBool   BaseType = "bool"
	TypeName   BaseType = "name"
	TypeID     BaseType = "id"
)

// FilterSpec declares one accepted request parameter.
//
// Min and Max are numeric bounds for int and float, and rune-length bounds for
// string. Both are inclusive. Default is returned when the raw value is missing or
// empty; for array specs only a slice default is honoured.
type FilterSpec struct {
	Type          BaseType `validate:"required"`
	Array         bool
	Min           *float64
	Max           *float64
	AllowedValues []string `validate:"omitempty,dive,required"`
	Default       any
}

// Param pairs a parameter name with its declaration.
type Param struct {
	Name string `validate:"required"`
	Spec FilterSpec
}

// Schema is the ordered list of parameters an endpoint accepts. Validation visits
// parameters in this order, so the first failing one is deterministic.
type Schema []Param

// With returns a new schema with extra parameters appended. The receiver is not
// modified.
func (s Schema) With(params ...Param) Schema {
	out := make(Schema, 0, len(s)+len(params))
	out = append(out, s...)
	return append(out, params...)
}

// Bound returns a pointer to v for use as FilterSpec.Min or FilterSpec.Max.
func Bound(v float64) *float64 {
	return &v
}

// Values holds raw request parameters. A missing key means the parameter is absent;
// array-typed parameters arrive pre-joined with commas.
type Values map[string]string

// FromURLValues flattens url.Values, joining repeated keys with a comma.
func FromURLValues(v url.Values) Values {
	out := make(Values, len(v))
	for key, vals := range v {
		out[key] = strings.Join(vals, ",")
	}
	return out
}

// Merge returns a copy of v overlaid with other. Keys in other win.
func (v Values) Merge(other Values) Values {
	out := make(Values, len(v)+len(other))
	for key, val := range v {
		out[key] = val
	}
	for key, val := range other {
		out[key] = val
	}
	return out
}
