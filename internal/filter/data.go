// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// Data buckets addressable from request keys.
const (
	BucketData          = "data"
	BucketTemplateData  = "template_data"
	BucketMutableData   = "mutable_data"
	BucketImmutableData = "immutable_data"
)

var bucketOrder = []string{BucketData, BucketTemplateData, BucketMutableData, BucketImmutableData}

// dataKeyPattern matches <bucket>.<key> and <bucket>:<tag>.<key>.
var dataKeyPattern = regexp.MustCompile(`^(data|template_data|mutable_data|immutable_data)(?::(text|number|bool))?\.(.+)$`)

// DataOptions names the table aliases available in the statement.
type DataOptions struct {
	// AssetAlias is the assets table alias, or empty when the statement has none.
	AssetAlias string

	// TemplateAlias is the templates table alias, or empty when the statement has none.
	// With an asset alias it is expected to be LEFT JOINed.
	TemplateAlias string

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

// Data adds JSON attribute filters and attribute name matching.
//
// Keys of the form data.rarity=rare or data:number.level=5 are grouped by
// bucket into one JSON object each, and every bucket adds a single
// "<column> @> $n::jsonb" condition. Untagged and text values stay strings,
// number values are floats, bool values follow the bool parameter rules.
//
// Name matching reads the "name" attribute:
//
//	match                 ILIKE substring of the current name
//	match_immutable_name  ILIKE substring of the asset immutable name
//	match_mutable_name    ILIKE substring of the asset mutable name
//	match_template_name   ILIKE substring of the template name
//	search                trigram word similarity (<%) on the current name
func Data(v validation.Values, q *query.Builder, opts DataOptions) error {
	buckets, err := parseDataKeys(validatorOr(opts.Validator), v)
	if err != nil {
		return err
	}

	for _, bucket := range bucketOrder {
		obj, ok := buckets[bucket]
		if !ok {
			continue
		}
		column := opts.bucketColumn(bucket)
		if column == "" {
			continue
		}
		doc, err := json.Marshal(obj)
		if err != nil {
			return fmt.Errorf("encode %s filter: %w", bucket, err)
		}
		q.AddCondition(column + " @> " + q.AddVariable(string(doc)) + "::jsonb")
	}

	return nameMatches(v, q, opts)
}

func nameMatches(v validation.Values, q *query.Builder, opts DataOptions) error {
	text := validation.FilterSpec{Type: validation.TypeString, Min: validation.Bound(1)}
	args, err := validatorOr(opts.Validator).Validate(v, validation.Schema{
		{Name: "match", Spec: text},
		{Name: "match_immutable_name", Spec: text},
		{Name: "match_mutable_name", Spec: text},
		{Name: "match_template_name", Spec: text},
		{Name: "search", Spec: text},
	})
	if err != nil {
		return err
	}

	ilike := func(param, column string) {
		if column == "" || !args.Has(param) {
			return
		}
		pattern := "%" + q.EscapeLikeVariable(args.String(param)) + "%"
		q.AddCondition("(" + column + ") ILIKE " + q.AddVariable(pattern))
	}

	current := opts.bucketColumn(BucketData)
	ilike("match", nameOf(current))
	ilike("match_immutable_name", nameOf(opts.bucketColumn(BucketImmutableData)))
	ilike("match_mutable_name", nameOf(opts.bucketColumn(BucketMutableData)))
	ilike("match_template_name", nameOf(opts.bucketColumn(BucketTemplateData)))

	if args.Has("search") && current != "" {
		q.AddCondition(q.AddVariable(args.String("search")) + " <% (" + nameOf(current) + ")")
	}
	return nil
}

// parseDataKeys groups attribute keys by bucket. Keys are visited in sorted
// order so the first invalid one is deterministic.
func parseDataKeys(vd *validation.Validator, v validation.Values) (map[string]map[string]any, error) {
	keys := make([]string, 0, len(v))
	for key := range v {
		if dataKeyPattern.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	buckets := make(map[string]map[string]any)
	for _, key := range keys {
		m := dataKeyPattern.FindStringSubmatch(key)
		bucket, tag, attr := m[1], m[2], m[3]

		val, err := attributeValue(vd, key, v[key], tag)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		if buckets[bucket] == nil {
			buckets[bucket] = make(map[string]any)
		}
		buckets[bucket][attr] = val
	}
	return buckets, nil
}

func attributeValue(vd *validation.Validator, key, raw, tag string) (any, error) {
	var t validation.BaseType
	switch tag {
	case "number":
		t = validation.TypeFloat
	case "bool":
		t = validation.TypeBool
	default:
		t = validation.TypeString
	}
	args, err := vd.Validate(validation.Values{key: raw}, validation.Schema{
		{Name: key, Spec: validation.FilterSpec{Type: t}},
	})
	if err != nil {
		return nil, err
	}
	return args[key], nil
}

// IsDataKey reports whether param addresses a JSON attribute, e.g.
// data.rarity or immutable_data:number.level. The key part is client chosen.
func IsDataKey(param string) bool {
	return dataKeyPattern.MatchString(param)
}

// bucketColumn maps a bucket to the JSONB expression it is matched against.
func (o DataOptions) bucketColumn(bucket string) string {
	a, t := o.AssetAlias, o.TemplateAlias
	switch bucket {
	case BucketMutableData:
		if a != "" {
			return a + ".mutable_data"
		}
	case BucketImmutableData:
		if a != "" {
			return a + ".immutable_data"
		}
	case BucketTemplateData:
		if t != "" {
			return t + ".immutable_data"
		}
	case BucketData:
		switch {
		case a != "" && t != "":
			return "(" + a + ".mutable_data || " + a + ".immutable_data || COALESCE(" + t + ".immutable_data, '{}'))"
		case a != "":
			return "(" + a + ".mutable_data || " + a + ".immutable_data)"
		case t != "":
			return t + ".immutable_data"
		}
	}
	return ""
}

func nameOf(column string) string {
	if column == "" {
		return ""
	}
	return column + "->>'name'"
}
