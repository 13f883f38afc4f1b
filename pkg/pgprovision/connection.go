package pgprovision

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection is the SQL execution capability the provisioning components
// consume. It decouples the creator and installer from pgx-specific pool
// types; production code adapts a pgxpool.Pool, tests supply doubles.
//
// Thread-safety follows the underlying connection: pool-backed
// implementations are safe for concurrent use.
type DBConnection interface {
	// Exec executes a statement without returning rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query expected to return at most one row.
	// Errors are deferred until Row.Scan.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Acquire obtains a dedicated connection for statements that need
	// connection affinity (CREATE DATABASE cannot run inside a
	// transaction or through an implicit pool statement). The caller
	// must Release the returned connection.
	Acquire(ctx context.Context) (PooledConnection, error)
}

// Row is a single row returned by QueryRow.
type Row interface {
	// Scan reads the row values into dest. Returns an error if no row
	// was found or a value cannot be converted.
	Scan(dest ...any) error
}

// PooledConnection is a connection checked out of a pool. Release returns
// it; the connection must not be used afterwards.
type PooledConnection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Release()
}
