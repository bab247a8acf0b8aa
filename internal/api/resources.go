// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"github.com/tomtom215/nftmirror/internal/config"
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/filter"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// filterFunc adds a resource's request filters to q.
type filterFunc func(vd *validation.Validator, v validation.Values, q *query.Builder) error

// resource describes one list endpoint over a mirror table.
type resource struct {
	name string

	// from is the FROM clause including any joins.
	from    string
	columns string
	primary string

	contractColumn string
	contract       string

	sort        map[string]string
	defaultSort string

	filter filterFunc
	schema validation.Schema
}

func (res *resource) selectSQL() string {
	return "SELECT " + res.columns + " FROM " + res.from
}

func (res *resource) countSQL() string {
	return "SELECT COUNT(*) AS count FROM " + res.from
}

// apply scopes q to the configured contract and adds the request filters.
func (res *resource) apply(vd *validation.Validator, v validation.Values, q *query.Builder) error {
	q.Equal(res.contractColumn, res.contract)
	if res.filter == nil {
		return nil
	}
	return res.filter(vd, v, q)
}

func sortKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// chain runs filters in order and stops at the first error.
func chain(filters ...filterFunc) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		for _, f := range filters {
			if err := f(vd, v, q); err != nil {
				return err
			}
		}
		return nil
	}
}

func columns(cols ...filter.Column) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		return filter.Columns(v, q, filter.ColumnsOptions{Columns: cols, Validator: vd})
	}
}

func list(name, column string) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		return filter.List(v, q, filter.ListOptions{Name: name, Column: column, Validator: vd})
	}
}

func boundary(opts filter.BoundaryOptions) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		opts.Validator = vd
		return filter.Boundary(v, q, opts)
	}
}

func nameMatch(column string) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		return filter.NameMatch(v, q, filter.NameMatchOptions{Column: column, Validator: vd})
	}
}

func account(param string, cols ...string) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		return filter.Account(v, q, filter.AccountOptions{Param: param, Columns: cols, Validator: vd})
	}
}

func name(param, column string) filter.Column {
	return filter.Column{Param: param, Column: column, Type: validation.TypeName}
}

func id(param, column string) filter.Column {
	return filter.Column{Param: param, Column: column, Type: validation.TypeID}
}

func integer(param, column string) filter.Column {
	return filter.Column{Param: param, Column: column, Type: validation.TypeInt}
}

// burned filters on asset ownership: burned assets have no owner.
func burned(vd *validation.Validator, v validation.Values, q *query.Builder) error {
	args, err := vd.Validate(v, validation.Schema{
		{Name: "burned", Spec: validation.FilterSpec{Type: validation.TypeBool}},
	})
	if err != nil {
		return err
	}
	if !args.Has("burned") {
		return nil
	}
	if args.Bool("burned") {
		q.IsNull("asset.owner")
	} else {
		q.NotNull("asset.owner")
	}
	return nil
}

// linkedAssets filters parents that reference one of the asset_id values
// through a link table. The sub-query shares q's parameters.
func linkedAssets(table, alias string, link func(sub *query.Builder)) filterFunc {
	return func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
		args, err := vd.Validate(v, validation.Schema{
			{Name: "asset_id", Spec: validation.FilterSpec{Type: validation.TypeID, Array: true}},
		})
		if err != nil {
			return err
		}
		if !args.Has("asset_id") {
			return nil
		}
		sub := q.Sub("SELECT * FROM " + table + " " + alias)
		link(sub)
		sub.EqualMany(alias+".asset_id", args.List("asset_id"))
		q.AddCondition("EXISTS (" + sub.Build() + ")")
		return nil
	}
}

// newResources builds the endpoint table. Every schema is checked here so a
// malformed declaration fails at start-up.
func newResources(cfg config.APIConfig, vd *validation.Validator) map[string]*resource {
	assets, market := cfg.AtomicAssetsContract, cfg.AtomicMarketContract

	defs := []*resource{
		{
			name: "assets",
			from: "atomicassets_assets asset LEFT JOIN atomicassets_templates template " +
				"ON template.contract = asset.contract AND template.template_id = asset.template_id",
			columns:        "asset.*, template.immutable_data AS template_immutable_data",
			primary:        "asset.asset_id",
			contractColumn: "asset.contract",
			contract:       assets,
			sort: map[string]string{
				"asset_id":    "asset.asset_id",
				"minted":      "asset.minted_at_time",
				"updated":     "asset.updated_at_time",
				"transferred": "asset.transferred_at_time",
				"template_id": "asset.template_id",
			},
			defaultSort: "asset_id",
			filter: chain(
				columns(
					name("owner", "asset.owner"),
					name("collection_name", "asset.collection_name"),
					name("schema_name", "asset.schema_name"),
					id("template_id", "asset.template_id"),
				),
				list("collection", "asset.collection_name"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "asset.asset_id",
					IDsParam:      "asset_id",
					DateColumn:    "asset.minted_at_time",
				}),
				burned,
				func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
					return filter.Data(v, q, filter.DataOptions{AssetAlias: "asset", TemplateAlias: "template", Validator: vd})
				},
				func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
					return filter.HideOffers(v, q, filter.HideOffersOptions{AssetAlias: "asset", Validator: vd})
				},
			),
		},
		{
			name:           "collections",
			from:           "atomicassets_collections collection",
			columns:        "collection.*",
			primary:        "collection.collection_name",
			contractColumn: "collection.contract",
			contract:       assets,
			sort: map[string]string{
				"created":         "collection.created_at_time",
				"collection_name": "collection.collection_name",
			},
			defaultSort: "created",
			filter: chain(
				columns(name("author", "collection.author")),
				list("collection", "collection.collection_name"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "collection.collection_name",
					PrimaryType:   validation.TypeName,
					IDsParam:      "collection_name",
					DateColumn:    "collection.created_at_time",
				}),
				nameMatch("collection.collection_name"),
			),
		},
		{
			name:           "schemas",
			from:           "atomicassets_schemas schema",
			columns:        "schema.*",
			primary:        "schema.schema_name",
			contractColumn: "schema.contract",
			contract:       assets,
			sort: map[string]string{
				"created":     "schema.created_at_time",
				"schema_name": "schema.schema_name",
			},
			defaultSort: "created",
			filter: chain(
				columns(name("collection_name", "schema.collection_name")),
				list("collection", "schema.collection_name"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "schema.schema_name",
					PrimaryType:   validation.TypeName,
					IDsParam:      "schema_name",
					DateColumn:    "schema.created_at_time",
				}),
				nameMatch("schema.schema_name"),
			),
		},
		{
			name:           "templates",
			from:           "atomicassets_templates template",
			columns:        "template.*",
			primary:        "template.template_id",
			contractColumn: "template.contract",
			contract:       assets,
			sort: map[string]string{
				"created":       "template.created_at_time",
				"template_id":   "template.template_id",
				"issued_supply": "template.issued_supply",
			},
			defaultSort: "created",
			filter: chain(
				columns(
					name("collection_name", "template.collection_name"),
					name("schema_name", "template.schema_name"),
				),
				list("collection", "template.collection_name"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "template.template_id",
					IDsParam:      "template_id",
					DateColumn:    "template.created_at_time",
				}),
				func(vd *validation.Validator, v validation.Values, q *query.Builder) error {
					return filter.Data(v, q, filter.DataOptions{TemplateAlias: "template", Validator: vd})
				},
			),
		},
		{
			name:           "offers",
			from:           "atomicassets_offers offer",
			columns:        "offer.*",
			primary:        "offer.offer_id",
			contractColumn: "offer.contract",
			contract:       assets,
			sort: map[string]string{
				"created": "offer.created_at_time",
				"updated": "offer.updated_at_time",
			},
			defaultSort: "created",
			filter: chain(
				columns(
					name("sender", "offer.sender"),
					name("recipient", "offer.recipient"),
					integer("state", "offer.state"),
				),
				account("account", "offer.sender", "offer.recipient"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "offer.offer_id",
					IDsParam:      "offer_id",
					DateColumn:    "offer.created_at_time",
				}),
				linkedAssets("atomicassets_offers_assets", "offer_asset", func(sub *query.Builder) {
					sub.Join("offer_asset", "offer", "contract", "offer_id")
				}),
			),
		},
		{
			name:           "transfers",
			from:           "atomicassets_transfers transfer",
			columns:        "transfer.*",
			primary:        "transfer.transfer_id",
			contractColumn: "transfer.contract",
			contract:       assets,
			sort: map[string]string{
				"created": "transfer.created_at_time",
			},
			defaultSort: "created",
			filter: chain(
				columns(
					name("sender", "transfer.sender"),
					name("recipient", "transfer.recipient"),
				),
				account("account", "transfer.sender", "transfer.recipient"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "transfer.transfer_id",
					DateColumn:    "transfer.created_at_time",
				}),
				linkedAssets("atomicassets_transfers_assets", "transfer_asset", func(sub *query.Builder) {
					sub.Join("transfer_asset", "transfer", "contract", "transfer_id")
				}),
			),
		},
		{
			name:           "sales",
			from:           "atomicmarket_sales listing",
			columns:        "listing.*",
			primary:        "listing.sale_id",
			contractColumn: "listing.market_contract",
			contract:       market,
			sort: map[string]string{
				"created": "listing.created_at_time",
				"updated": "listing.updated_at_time",
				"sale_id": "listing.sale_id",
				"price":   "listing.listing_price",
			},
			defaultSort: "created",
			filter: chain(
				columns(
					name("seller", "listing.seller"),
					name("buyer", "listing.buyer"),
					name("collection_name", "listing.collection_name"),
					name("maker_marketplace", "listing.maker_marketplace"),
					name("taker_marketplace", "listing.taker_marketplace"),
					integer("state", "listing.state"),
				),
				list("collection", "listing.collection_name"),
				list("seller", "listing.seller"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "listing.sale_id",
					IDsParam:      "sale_id",
					DateColumn:    "listing.created_at_time",
				}),
				linkedAssets("atomicassets_offers_assets", "offer_asset", func(sub *query.Builder) {
					sub.AddCondition("offer_asset.contract = listing.assets_contract")
					sub.Join("offer_asset", "listing", "offer_id")
				}),
			),
		},
		{
			name:           "auctions",
			from:           "atomicmarket_auctions listing",
			columns:        "listing.*",
			primary:        "listing.auction_id",
			contractColumn: "listing.market_contract",
			contract:       market,
			sort: map[string]string{
				"created":    "listing.created_at_time",
				"updated":    "listing.updated_at_time",
				"ending":     "listing.end_time",
				"auction_id": "listing.auction_id",
				"price":      "listing.price",
			},
			defaultSort: "created",
			filter: chain(
				columns(
					name("seller", "listing.seller"),
					name("buyer", "listing.buyer"),
					name("collection_name", "listing.collection_name"),
					integer("state", "listing.state"),
				),
				list("collection", "listing.collection_name"),
				list("seller", "listing.seller"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "listing.auction_id",
					IDsParam:      "auction_id",
					DateColumn:    "listing.created_at_time",
				}),
				linkedAssets("atomicmarket_auctions_assets", "auction_asset", func(sub *query.Builder) {
					sub.Join("auction_asset", "listing", "market_contract", "auction_id")
				}),
			),
		},
		{
			name:           "buyoffers",
			from:           "atomicmarket_buyoffers listing",
			columns:        "listing.*",
			primary:        "listing.buyoffer_id",
			contractColumn: "listing.market_contract",
			contract:       market,
			sort: map[string]string{
				"created":     "listing.created_at_time",
				"updated":     "listing.updated_at_time",
				"buyoffer_id": "listing.buyoffer_id",
				"price":       "listing.price",
			},
			defaultSort: "created",
			filter: chain(
				columns(
					name("buyer", "listing.buyer"),
					name("seller", "listing.seller"),
					name("collection_name", "listing.collection_name"),
					integer("state", "listing.state"),
				),
				list("collection", "listing.collection_name"),
				boundary(filter.BoundaryOptions{
					PrimaryColumn: "listing.buyoffer_id",
					IDsParam:      "buyoffer_id",
					DateColumn:    "listing.created_at_time",
				}),
				linkedAssets("atomicmarket_buyoffers_assets", "buyoffer_asset", func(sub *query.Builder) {
					sub.Join("buyoffer_asset", "listing", "market_contract", "buyoffer_id")
				}),
			),
		},
	}

	out := make(map[string]*resource, len(defs))
	for _, res := range defs {
		res.schema = pagingSchema(cfg, sortKeys(res.sort), res.defaultSort)
		if err := vd.Check(res.schema); err != nil {
			panic("api: invalid schema for " + res.name + ": " + err.Error())
		}
		out[res.name] = res
	}
	return out
}
