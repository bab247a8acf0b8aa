// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

//go:build integration

package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/tomtom215/nftmirror/internal/database"
	"github.com/tomtom215/nftmirror/internal/database/query"
	"github.com/tomtom215/nftmirror/internal/filter"
	"github.com/tomtom215/nftmirror/internal/testinfra"
	"github.com/tomtom215/nftmirror/internal/validation"
)

const mirrorSchema = `
CREATE TABLE atomicassets_assets (
	contract varchar(12) NOT NULL,
	asset_id bigint NOT NULL,
	collection_name varchar(13) NOT NULL,
	owner varchar(12),
	mutable_data jsonb NOT NULL DEFAULT '{}',
	immutable_data jsonb NOT NULL DEFAULT '{}',
	minted_at_time bigint NOT NULL,
	PRIMARY KEY (contract, asset_id)
);
CREATE TABLE atomicassets_offers (
	contract varchar(12) NOT NULL,
	offer_id bigint NOT NULL,
	state smallint NOT NULL,
	PRIMARY KEY (contract, offer_id)
);
CREATE TABLE atomicassets_offers_assets (
	contract varchar(12) NOT NULL,
	offer_id bigint NOT NULL,
	asset_id bigint NOT NULL,
	PRIMARY KEY (contract, offer_id, asset_id)
);
INSERT INTO atomicassets_assets VALUES
	('atomicassets', 1, 'alpha', 'alice', '{}', '{"name": "Red Dragon", "rarity": "rare"}', 100),
	('atomicassets', 2, 'alpha', 'bob', '{}', '{"name": "Blue Dragon", "rarity": "common"}', 150),
	('atomicassets', 3, 'beta', 'alice', '{"level": 3}', '{"name": "Green Orc"}', 250);
INSERT INTO atomicassets_offers VALUES ('atomicassets', 10, 0), ('atomicassets', 11, 2);
INSERT INTO atomicassets_offers_assets VALUES ('atomicassets', 10, 1), ('atomicassets', 11, 2);
`

func openMirror(t *testing.T) *database.PostgresExecutor {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := testinfra.NewPostgresContainer(ctx, testinfra.WithInitScript(mirrorSchema))
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	testinfra.CleanupContainer(t, pg)

	exec, err := database.Open(ctx, &pg.Config)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = exec.Close() })
	return exec
}

func assetIDs(rows []database.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = validation.Text(r["asset_id"])
	}
	return out
}

func TestPostgresExecutor_Integration(t *testing.T) {
	exec := openMirror(t)
	ctx := context.Background()

	t.Run("predicates compose into valid SQL", func(t *testing.T) {
		q := query.New("SELECT asset.asset_id FROM atomicassets_assets asset")
		q.Equal("asset.contract", "atomicassets")
		values := validation.Values{
			"collection_name_whitelist": "alpha,beta",
			"hide_offers":               "true",
		}
		if err := filter.List(values, q, filter.ListOptions{Name: "collection_name", Column: "asset.collection_name"}); err != nil {
			t.Fatal(err)
		}
		if err := filter.HideOffers(values, q, filter.HideOffersOptions{}); err != nil {
			t.Fatal(err)
		}
		q.Append("ORDER BY asset.asset_id ASC")

		rows, err := exec.Query(ctx, q.Build(), q.Values())
		if err != nil {
			t.Fatalf("Query() error = %v\nsql: %s", err, q.Build())
		}
		got := assetIDs(rows)
		if len(got) != 2 || got[0] != "2" || got[1] != "3" {
			t.Errorf("asset ids = %v, want [2 3]", got)
		}
	})

	t.Run("empty whitelist difference matches nothing", func(t *testing.T) {
		q := query.New("SELECT asset.asset_id FROM atomicassets_assets asset")
		values := validation.Values{"owner_whitelist": "alice", "owner_blacklist": "alice"}
		if err := filter.List(values, q, filter.ListOptions{Name: "owner", Column: "asset.owner"}); err != nil {
			t.Fatal(err)
		}
		rows, err := exec.Query(ctx, q.Build(), q.Values())
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("expected no rows, got %v", assetIDs(rows))
		}
	})

	t.Run("data bucket and pagination", func(t *testing.T) {
		q := query.New("SELECT asset.asset_id FROM atomicassets_assets asset")
		values := validation.Values{"immutable_data.rarity": "common", "match_immutable_name": "dragon"}
		if err := filter.Data(values, q, filter.DataOptions{AssetAlias: "asset"}); err != nil {
			t.Fatal(err)
		}
		q.Append("ORDER BY asset.asset_id")
		q.Paginate(1, 10)

		rows, err := exec.Query(ctx, q.Build(), q.Values())
		if err != nil {
			t.Fatalf("Query() error = %v\nsql: %s", err, q.Build())
		}
		if got := assetIDs(rows); len(got) != 1 || got[0] != "2" {
			t.Errorf("asset ids = %v, want [2]", got)
		}
	})

	t.Run("boundary on minted time", func(t *testing.T) {
		q := query.New("SELECT asset.asset_id FROM atomicassets_assets asset")
		values := validation.Values{"after": "100", "before": "250"}
		if err := filter.Boundary(values, q, filter.BoundaryOptions{
			PrimaryColumn: "asset.asset_id",
			DateColumn:    "asset.minted_at_time",
		}); err != nil {
			t.Fatal(err)
		}
		rows, err := exec.Query(ctx, q.Build(), q.Values())
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if got := assetIDs(rows); len(got) != 1 || got[0] != "2" {
			t.Errorf("asset ids = %v, want [2]", got)
		}
	})

	t.Run("driver errors propagate unchanged", func(t *testing.T) {
		_, err := exec.Query(ctx, "SELECT * FROM missing_table", nil)
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) {
			t.Fatalf("expected *pq.Error, got %T: %v", err, err)
		}
		if pqErr.Code != "42P01" {
			t.Errorf("SQLSTATE = %s, want 42P01", pqErr.Code)
		}
	})

	t.Run("statement timeout applies", func(t *testing.T) {
		_, err := exec.Query(ctx, "SELECT pg_sleep(5)", nil)
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) || pqErr.Code != "57014" {
			t.Errorf("expected query_canceled, got %v", err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := exec.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
