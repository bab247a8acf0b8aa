// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package filter

import (
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/validation"
)

// OfferStatePending is the atomicassets offer state of an open trade offer.
const OfferStatePending = 0

// HideOffersOptions configures HideOffers.
type HideOffersOptions struct {
	// AssetAlias is the assets table alias. Defaults to "asset".
	AssetAlias string

	// Validator checks the parameters. Defaults to validation.Default().
	Validator *validation.Validator
}

// HideOffers excludes assets that are part of a pending trade offer when the
// hide_offers flag is set.
func HideOffers(v validation.Values, q *query.Builder, opts HideOffersOptions) error {
	args, err := validatorOr(opts.Validator).Validate(v, validation.Schema{
		{Name: "hide_offers", Spec: validation.FilterSpec{Type: validation.TypeBool, Default: false}},
	})
	if err != nil {
		return err
	}
	if !args.Bool("hide_offers") {
		return nil
	}

	alias := opts.AssetAlias
	if alias == "" {
		alias = "asset"
	}

	sub := q.Sub("SELECT * FROM atomicassets_offers offer, atomicassets_offers_assets offer_asset")
	sub.Join("offer_asset", alias, "contract", "asset_id")
	sub.Join("offer", "offer_asset", "contract", "offer_id")
	sub.Equal("offer.state", OfferStatePending)
	q.AddCondition("NOT EXISTS (" + sub.Build() + ")")
	return nil
}
