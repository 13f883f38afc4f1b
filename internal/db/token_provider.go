package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database
// authentication. Managed PostGIS offerings (RDS, Azure Flexible Server,
// Cloud SQL) all authenticate admin connections with short-lived tokens
// used in place of a password.
type TokenProvider interface {
	// GetToken acquires a token and its expiry time.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logging. Must not leak secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope Azure AD uses to issue tokens
// for Azure Database for PostgreSQL access.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
