// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package validation

import (
	"reflect"
	"strings"
)

// Validator applies schemas to request values using an explicit registry.
type Validator struct {
	registry *Registry
}

// New creates a Validator backed by the given registry. A nil registry means
// DefaultRegistry().
func New(registry *Registry) *Validator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Validator{registry: registry}
}

// Registry returns the registry the validator dispatches through.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// defaultValidator is built once from the built-in types and never re-registered.
var defaultValidator = New(DefaultRegistry())

// Default returns the shared validator for the built-in types.
func Default() *Validator {
	return defaultValidator
}

// Validate runs values through schema with the default validator.
func Validate(values Values, schema Schema) (Args, error) {
	return defaultValidator.Validate(values, schema)
}

// Validate coerces every declared parameter in schema order. It stops at the first
// invalid parameter and returns a *ValidationError naming it.
func (v *Validator) Validate(values Values, schema Schema) (Args, error) {
	args := make(Args, len(schema))
	for _, p := range schema {
		val, err := v.param(values, p)
		if err != nil {
			return nil, &ValidationError{Param: p.Name, cause: err}
		}
		args[p.Name] = val
	}
	return args, nil
}

func (v *Validator) param(values Values, p Param) (any, error) {
	raw, ok := values[p.Name]
	if !ok || raw == "" {
		return defaultFor(p.Spec), nil
	}

	coerce := v.registry.lookup(p.Spec.Type)

	if !p.Spec.Array {
		val, err := coerce(raw, p.Spec)
		if err != nil {
			return nil, err
		}
		if val == NoValue {
			return p.Spec.Default, nil
		}
		return val, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		val, err := coerce(part, p.Spec)
		if err != nil {
			return nil, err
		}
		if val == NoValue {
			continue
		}
		out = append(out, val)
	}
	return out, nil
}

// defaultFor resolves the value for a missing parameter. Array specs always yield
// a non-nil slice.
func defaultFor(spec FilterSpec) any {
	if !spec.Array {
		return spec.Default
	}
	if spec.Default != nil {
		rv := reflect.ValueOf(spec.Default)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := make([]any, rv.Len())
			for i := range out {
				out[i] = rv.Index(i).Interface()
			}
			return out
		}
	}
	return []any{}
}
