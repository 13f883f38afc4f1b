package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// PoolAdapter adapts *pgxpool.Pool to pgprovision.DBConnection so the
// provisioning components never touch pgx pool types directly.
//
// Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter wraps a pool as a DBConnection.
func NewPoolAdapter(pool *pgxpool.Pool) pgprovision.DBConnection {
	return &PoolAdapter{pool: pool}
}

// Exec executes a statement without returning rows.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// QueryRow executes a query expected to return at most one row.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgprovision.Row {
	return &rowAdapter{row: p.pool.QueryRow(ctx, sql, args...)}
}

// Acquire obtains a dedicated connection from the pool.
func (p *PoolAdapter) Acquire(ctx context.Context) (pgprovision.PooledConnection, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pooledConnAdapter{conn: conn}, nil
}

type rowAdapter struct {
	row interface{ Scan(...any) error }
}

func (r *rowAdapter) Scan(dest ...any) error {
	return r.row.Scan(dest...)
}

type pooledConnAdapter struct {
	conn *pgxpool.Conn
}

func (p *pooledConnAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.conn.Exec(ctx, sql, args...)
}

func (p *pooledConnAdapter) Release() {
	p.conn.Release()
}

var _ pgprovision.DBConnection = (*PoolAdapter)(nil)
