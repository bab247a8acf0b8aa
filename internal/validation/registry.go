// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package validation

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// Coercer converts one raw element into its typed value. Returning NoValue drops
// the element from array results and falls back to the default for scalars.
// Any error is reported to the caller as a ValidationError for the parameter.
type Coercer func(raw string, spec FilterSpec) (any, error)

type noValue struct{}

// NoValue is the sentinel a Coercer returns for an explicitly empty element.
var NoValue any = noValue{}

var (
	errMalformed  = errors.New("malformed value")
	errOutOfRange = errors.New("value out of range")
	errNotAllowed = errors.New("value not allowed")
)

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^[-+]?\d+(\.\d+)?(e\d+)?$`)
	namePattern  = regexp.MustCompile(`^[.1-5a-z]{1,12}[.1-5a-j]?$`)
	idPattern    = regexp.MustCompile(`^\d+$`)
)

// Registry maps base types to coercion functions.
type Registry struct {
	mu       sync.RWMutex
	coercers map[BaseType]Coercer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{coercers: make(map[BaseType]Coercer)}
}

// DefaultRegistry returns a registry holding the six built-in types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeString, coerceString)
	r.Register(TypeInt, coerceInt)
	r.Register(TypeFloat, coerceFloat)
	r.Register(TypeBool, coerceBool)
	r.Register(TypeName, coerceName)
	r.Register(TypeID, coerceID)
	return r
}

// Register adds or replaces the coercer for t.
func (r *Registry) Register(t BaseType, c Coercer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coercers[t] = c
}

// Has reports whether t is registered.
func (r *Registry) Has(t BaseType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.coercers[t]
	return ok
}

// lookup panics for unknown types; a schema referencing one is an implementer bug.
func (r *Registry) lookup(t BaseType) Coercer {
	r.mu.RLock()
	c, ok := r.coercers[t]
	r.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("validation: no coercer registered for type %q", t))
	}
	return c
}

func coerceString(raw string, spec FilterSpec) (any, error) {
	n := float64(utf8.RuneCountInString(raw))
	if spec.Min != nil && n < *spec.Min {
		return nil, errOutOfRange
	}
	if spec.Max != nil && n > *spec.Max {
		return nil, errOutOfRange
	}
	if len(spec.AllowedValues) > 0 && !slices.Contains(spec.AllowedValues, raw) {
		return nil, errNotAllowed
	}
	return raw, nil
}

// coerceInt accepts digits of any length. Values that fit in 64 bits are returned
// as int64, larger ones as *big.Int.
func coerceInt(raw string, spec FilterSpec) (any, error) {
	if !intPattern.MatchString(raw) {
		return nil, errMalformed
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errMalformed
	}
	f := new(big.Float).SetInt(n)
	if spec.Min != nil && f.Cmp(big.NewFloat(*spec.Min)) < 0 {
		return nil, errOutOfRange
	}
	if spec.Max != nil && f.Cmp(big.NewFloat(*spec.Max)) > 0 {
		return nil, errOutOfRange
	}
	if n.IsInt64() {
		return n.Int64(), nil
	}
	return n, nil
}

func coerceFloat(raw string, spec FilterSpec) (any, error) {
	if !floatPattern.MatchString(raw) {
		return nil, errMalformed
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errMalformed
	}
	if spec.Min != nil && f < *spec.Min {
		return nil, errOutOfRange
	}
	if spec.Max != nil && f > *spec.Max {
		return nil, errOutOfRange
	}
	return f, nil
}

func coerceBool(raw string, _ FilterSpec) (any, error) {
	switch raw {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	case "empty":
		return NoValue, nil
	default:
		return nil, errMalformed
	}
}

func coerceName(raw string, _ FilterSpec) (any, error) {
	if !namePattern.MatchString(raw) {
		return nil, errMalformed
	}
	return raw, nil
}

// coerceID keeps ids as strings; they routinely exceed 64-bit range.
func coerceID(raw string, _ FilterSpec) (any, error) {
	if strings.EqualFold(raw, "null") {
		return raw, nil
	}
	if !idPattern.MatchString(raw) {
		return nil, errMalformed
	}
	return raw, nil
}
