// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tomtom215/nftmirror/internal/config"
)

const (
	// DefaultPostgresImage is the PostgreSQL image the mirror targets.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort     = "5432/tcp"
	postgresUser     = "nftmirror"
	postgresPassword = "nftmirror"
	postgresDB       = "nftmirror"
)

// PostgresContainer is a running PostgreSQL instance for integration tests.
type PostgresContainer struct {
	testcontainers.Container
	Config config.DatabaseConfig
}

// PostgresOption configures the PostgreSQL container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	initScripts  []string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom PostgreSQL image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithInitScript adds SQL run by the entrypoint before the server accepts
// connections. Scripts run in the order given.
func WithInitScript(script string) PostgresOption {
	return func(c *postgresConfig) {
		c.initScripts = append(c.initScripts, script)
	}
}

// NewPostgresContainer starts PostgreSQL and returns a DatabaseConfig
// pointing at it.
//
//	pg, err := testinfra.NewPostgresContainer(ctx, testinfra.WithInitScript(schema))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	testinfra.CleanupContainer(t, pg)
//	exec, err := database.Open(ctx, &pg.Config)
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	files := make([]testcontainers.ContainerFile, 0, len(cfg.initScripts))
	for i, script := range cfg.initScripts {
		files = append(files, testcontainers.ContainerFile{
			Reader:            strings.NewReader(script),
			ContainerFilePath: fmt.Sprintf("/docker-entrypoint-initdb.d/%02d.sql", i),
			FileMode:          0o644,
		})
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		Files: files,
		// The entrypoint restarts the server once after init scripts run.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &PostgresContainer{
		Container: container,
		Config: config.DatabaseConfig{
			Host:             host,
			Port:             port.Int(),
			User:             postgresUser,
			Password:         postgresPassword,
			Name:             postgresDB,
			SSLMode:          "disable",
			MaxOpenConns:     4,
			MaxIdleConns:     2,
			ConnMaxLifetime:  time.Minute,
			StatementTimeout: 2 * time.Second,
			Breaker: config.BreakerConfig{
				MaxRequests:  1,
				Interval:     time.Minute,
				Timeout:      time.Second,
				MinRequests:  5,
				FailureRatio: 0.6,
			},
		},
	}, nil
}
