// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/nftmirror/internal/config"
	"github.com/tomtom215/nftmirror/internal/logging"
	"github.com/tomtom215/nftmirror/internal/metrics"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Executor runs a rendered query with its positional parameters.
type Executor interface {
	Query(ctx context.Context, sql string, values []any) ([]Row, error)
}

// breakerName labels the query breaker in logs and metrics.
const breakerName = "postgres"

type resourceKey struct{}

// WithResource tags ctx with the resource a query serves. It becomes the
// resource label on query metrics.
func WithResource(ctx context.Context, resource string) context.Context {
	return context.WithValue(ctx, resourceKey{}, resource)
}

func resourceFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(resourceKey{}).(string); ok && r != "" {
		return r
	}
	return "unknown"
}

// PostgresExecutor executes queries on a pooled lib/pq connection.
type PostgresExecutor struct {
	db     *sql.DB
	cb     *gobreaker.CircuitBreaker[[]Row]
	name   string
	logger *slog.Logger
}

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresExecutor, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	e := newExecutor(db, cfg.Breaker)
	if err := e.Ping(ctx); err != nil {
		closeWithLog(db, e.logger, "database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Dur("statement_timeout", cfg.StatementTimeout).
		Msg("Connected to PostgreSQL")

	return e, nil
}

func newExecutor(db *sql.DB, breaker config.BreakerConfig) *PostgresExecutor {
	return &PostgresExecutor{
		db:     db,
		cb:     newBreaker(breakerName, breaker),
		name:   breakerName,
		logger: logging.NewSlogLogger("database"),
	}
}

// Close releases the connection pool.
func (e *PostgresExecutor) Close() error {
	return e.db.Close()
}

// Ping checks that the database is reachable. It bypasses the breaker so
// health checks report the database itself.
func (e *PostgresExecutor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Query runs stmt with values bound to $1..$n and returns all rows.
func (e *PostgresExecutor) Query(ctx context.Context, stmt string, values []any) ([]Row, error) {
	start := time.Now()
	rows, err := e.execute(func() ([]Row, error) {
		return e.query(ctx, stmt, values)
	})
	metrics.RecordDBQuery(resourceFromContext(ctx), time.Since(start), classifyError(err))
	return rows, err
}

func (e *PostgresExecutor) query(ctx context.Context, query string, values []any) ([]Row, error) {
	rows, err := e.db.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, e.logger, "rows")
	return scanRows(rows)
}

// rowScanner is the subset of *sql.Rows used to read a result set.
type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanRows reads every row into a map. Text and numeric columns arrive from
// lib/pq as []byte and are returned as strings, which keeps numeric ids beyond
// 64 bits exact.
func scanRows(rows rowScanner) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
