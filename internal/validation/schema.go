// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton struct validator used for schema declarations
var (
	structValidate     *validator.Validate
	structValidateOnce sync.Once
)

// GetStructValidator returns the go-playground validator used to check schema
// declarations. It is initialized once and safe for concurrent use.
func GetStructValidator() *validator.Validate {
	structValidateOnce.Do(func() {
		structValidate = validator.New(validator.WithRequiredStructEnabled())
		structValidate.RegisterStructValidation(filterSpecStructLevel, FilterSpec{})
	})
	return structValidate
}

// filterSpecStructLevel enforces the cross-field rules a tag cannot express.
//
//nolint:gocritic // validator.StructLevel is passed by value per the validator API
func filterSpecStructLevel(sl validator.StructLevel) {
	spec, ok := sl.Current().Interface().(FilterSpec)
	if !ok {
		return
	}
	if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
		sl.ReportError(spec.Max, "Max", "Max", "gtefield", "Min")
	}
	if len(spec.AllowedValues) > 0 && spec.Type != TypeString {
		sl.ReportError(spec.AllowedValues, "AllowedValues", "AllowedValues", "string_only", "")
	}
	if spec.Array && spec.Default != nil {
		k := reflect.ValueOf(spec.Default).Kind()
		if k != reflect.Slice && k != reflect.Array {
			sl.ReportError(spec.Default, "Default", "Default", "slice", "")
		}
	}
}

// Check verifies a schema declaration: every spec is well formed, every type is
// registered and no name is declared twice.
func (v *Validator) Check(schema Schema) error {
	seen := make(map[string]struct{}, len(schema))
	var errs []error
	for _, p := range schema {
		if err := GetStructValidator().Struct(p); err != nil {
			errs = append(errs, fmt.Errorf("parameter %q: %w", p.Name, err))
			continue
		}
		if !v.registry.Has(p.Spec.Type) {
			errs = append(errs, fmt.Errorf("parameter %q: unregistered type %q", p.Name, p.Spec.Type))
		}
		if _, dup := seen[p.Name]; dup {
			errs = append(errs, fmt.Errorf("parameter %q declared twice", p.Name))
		}
		seen[p.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

// MustCheck panics if schema is malformed and returns it otherwise. Endpoint
// schemas are checked once at router setup.
func MustCheck(schema Schema) Schema {
	if err := defaultValidator.Check(schema); err != nil {
		panic("validation: invalid schema: " + err.Error())
	}
	return schema
}
