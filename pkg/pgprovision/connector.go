package pgprovision

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes database connections. Implementations cover the
// supported authentication methods (password, cloud IAM token providers).
type Connector interface {
	// Connect establishes a connection pool. The caller owns the pool
	// and must close it when its phase completes.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
