// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

var assetColumns = []Column{
	{Param: "owner", Column: "asset.owner", Type: validation.TypeName},
	{Param: "template_id", Column: "asset.template_id", Type: validation.TypeID},
	{Param: "collection_name", Column: "asset.collection_name", Type: validation.TypeName},
}

func TestColumns(t *testing.T) {
	q := query.New(assetsBase)

	err := Columns(validation.Values{"owner": "alice,bob", "collection_name": "alpha"}, q, ColumnsOptions{Columns: assetColumns})
	require.NoError(t, err)

	assert.Equal(t, "asset.owner = ANY($1) AND asset.collection_name = ANY($2)", q.Where())
	assert.Equal(t, []any{
		pq.Array([]string{"alice", "bob"}),
		pq.Array([]string{"alpha"}),
	}, q.Values())
}

func TestColumns_AbsentAddsNothing(t *testing.T) {
	q := query.New(assetsBase)
	require.NoError(t, Columns(validation.Values{"owner": ""}, q, ColumnsOptions{Columns: assetColumns}))
	assert.True(t, q.IsEmpty())
}

func TestColumns_FirstInvalidInDeclarationOrder(t *testing.T) {
	q := query.New(assetsBase)
	err := Columns(validation.Values{"collection_name": "UPPER", "template_id": "x"}, q, ColumnsOptions{Columns: assetColumns})
	requireParam(t, err, "template_id")
	assert.True(t, q.IsEmpty())
}

func TestAccount(t *testing.T) {
	q := query.New("SELECT * FROM atomicassets_transfers transfer")

	err := Account(validation.Values{"account": "alice,bob"}, q, AccountOptions{
		Param:   "account",
		Columns: []string{"transfer.sender_name", "transfer.recipient_name"},
	})
	require.NoError(t, err)

	assert.Equal(t, "(transfer.sender_name = ANY($1) OR transfer.recipient_name = ANY($1))", q.Where())
	assert.Len(t, q.Values(), 1)
}

func TestAccount_Invalid(t *testing.T) {
	q := query.New("SELECT * FROM atomicassets_transfers transfer")
	err := Account(validation.Values{"account": "Not-A-Name"}, q, AccountOptions{
		Param:   "account",
		Columns: []string{"transfer.sender_name"},
	})
	requireParam(t, err, "account")
}

// upperNames accepts any upper-case word as a name.
func upperNames() *validation.Validator {
	reg := validation.DefaultRegistry()
	reg.Register(validation.TypeName, func(raw string, _ validation.FilterSpec) (any, error) {
		if raw == "" || strings.ToUpper(raw) != raw {
			return nil, assert.AnError
		}
		return raw, nil
	})
	return validation.New(reg)
}

func TestFilters_UseInjectedValidator(t *testing.T) {
	vd := upperNames()
	values := validation.Values{
		"owner":                "ALICE",
		"account":              "BOB",
		"collection_whitelist": "ALPHA",
	}

	q := query.New(assetsBase)
	require.NoError(t, Columns(values, q, ColumnsOptions{Columns: assetColumns, Validator: vd}))
	require.NoError(t, Account(values, q, AccountOptions{Param: "account", Columns: []string{"asset.owner"}, Validator: vd}))
	require.NoError(t, List(values, q, ListOptions{Name: "collection", Column: "asset.collection_name", Validator: vd}))
	assert.Len(t, q.Values(), 3)

	// The default registry rejects the same values.
	requireParam(t, Columns(values, query.New(assetsBase), ColumnsOptions{Columns: assetColumns}), "owner")
	requireParam(t, List(values, query.New(assetsBase), ListOptions{Name: "collection", Column: "asset.collection_name"}), "collection_whitelist")
}

func TestData_UsesInjectedValidator(t *testing.T) {
	reg := validation.DefaultRegistry()
	reg.Register(validation.TypeFloat, func(string, validation.FilterSpec) (any, error) {
		return float64(42), nil
	})

	q := query.New(assetsBase)
	err := Data(validation.Values{"data:number.level": "high"}, q, DataOptions{
		AssetAlias: "asset",
		Validator:  validation.New(reg),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{`{"level":42}`}, q.Values())

	err = Data(validation.Values{"data:number.level": "high"}, query.New(assetsBase), DataOptions{AssetAlias: "asset"})
	requireParam(t, err, "data:number.level")
}

func TestIsDataKey(t *testing.T) {
	tests := []struct {
		param string
		want  bool
	}{
		{"data.rarity", true},
		{"immutable_data:number.level", true},
		{"template_data:bool.shiny", true},
		{"data:color.x", false},
		{"owner", false},
		{"match_immutable_name", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDataKey(tt.param), tt.param)
	}
}
