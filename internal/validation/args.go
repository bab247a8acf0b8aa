// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package validation

import (
	"fmt"
	"math/big"
	"strconv"
)

// Args holds validated parameters: a coerced scalar (or the default, possibly nil)
// or a []any for array specs.
type Args map[string]any

// Has reports whether name resolved to a non-nil scalar or a non-empty list.
func (a Args) Has(name string) bool {
	switch v := a[name].(type) {
	case nil:
		return false
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// List returns the array value for name, or nil if it is not an array.
func (a Args) List(name string) []any {
	if v, ok := a[name].([]any); ok {
		return v
	}
	return nil
}

// String returns the scalar as a string, or "" if absent.
func (a Args) String(name string) string {
	v := a[name]
	if v == nil {
		return ""
	}
	return Text(v)
}

// Strings returns the array elements rendered as strings.
func (a Args) Strings(name string) []string {
	list := a.List(name)
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = Text(v)
	}
	return out
}

// Int returns the scalar as int64. ok is false when the value is absent, not an
// integer, or too large for 64 bits.
func (a Args) Int(name string) (int64, bool) {
	switch v := a[name].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case *big.Int:
		if v.IsInt64() {
			return v.Int64(), true
		}
	}
	return 0, false
}

// IntOr returns the scalar as int64 or fallback.
func (a Args) IntOr(name string, fallback int64) int64 {
	if v, ok := a.Int(name); ok {
		return v
	}
	return fallback
}

// Float returns the scalar as float64.
func (a Args) Float(name string) (float64, bool) {
	switch v := a[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the scalar as bool; absent values are false.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Text renders a coerced value as the string a client would have sent.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case *big.Int:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
