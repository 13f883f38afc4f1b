package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// Creator issues CREATE DATABASE against an admin connection. Stateless;
// safe for concurrent use with independent connections.
type Creator struct {
	log pgprovision.Logger
}

// NewCreator creates a database creator.
func NewCreator(log pgprovision.Logger) *Creator {
	return &Creator{log: log}
}

// CreateDatabase creates the target database with the configured encoding,
// setting the owner when a separate superuser performs the creation.
//
// A database that already exists is reported as OutcomeAlreadyExists, not
// an error, so re-provisioning stays idempotent. Every other server error
// propagates wrapped in ErrSQLExecution with the original message.
func (c *Creator) CreateDatabase(ctx context.Context, conn pgprovision.DBConnection, cfg *pgprovision.ProvisioningConfig) (pgprovision.Outcome, error) {
	// CREATE DATABASE cannot run inside a transaction; it needs a
	// dedicated connection, not an implicit pool statement.
	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return pgprovision.OutcomeFailed, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pooledConn.Release()

	stmt := buildCreateDatabaseStatement(cfg)
	c.log.Verbose("executing: %s", stmt)

	if _, err := pooledConn.Exec(ctx, stmt); err != nil {
		if isDuplicateDatabase(err) {
			c.log.Info("database %q already exists", cfg.DatabaseName)
			return pgprovision.OutcomeAlreadyExists, nil
		}
		return pgprovision.OutcomeFailed,
			fmt.Errorf("failed to create database %q: %w: %v", cfg.DatabaseName, pgprovision.ErrSQLExecution, err)
	}

	c.log.Info("created database %q", cfg.DatabaseName)
	return pgprovision.OutcomeCreated, nil
}

// buildCreateDatabaseStatement assembles the CREATE DATABASE DDL. OWNER is
// set only when a distinct superuser creates the database on behalf of the
// owner; when owner credentials create it, ownership is already correct.
func buildCreateDatabaseStatement(cfg *pgprovision.ProvisioningConfig) string {
	var b strings.Builder
	b.WriteString("CREATE DATABASE ")
	b.WriteString(pgx.Identifier{cfg.DatabaseName}.Sanitize())

	if cfg.Encoding != "" {
		fmt.Fprintf(&b, " ENCODING '%s'", strings.ReplaceAll(cfg.Encoding, "'", "''"))
	}

	if cfg.Owner != "" && cfg.EffectiveSuperuser() != cfg.Owner {
		b.WriteString(" OWNER ")
		b.WriteString(pgx.Identifier{cfg.Owner}.Sanitize())
	}

	return b.String()
}

// isDuplicateDatabase detects the duplicate-database condition, by
// SQLSTATE when the server surfaces one and by message text for poolers
// and proxies that strip the code.
func isDuplicateDatabase(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.DuplicateDatabase
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database") && strings.Contains(msg, "already exists")
}
