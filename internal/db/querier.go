package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is what the user directory and session store need from Postgres.
// *pgxpool.Pool and pgxmock pools both satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pinger is implemented by pools that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks q when it supports it. A nil or non-pinging querier counts as healthy.
func Ping(ctx context.Context, q Querier) error {
	p, ok := q.(Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}
