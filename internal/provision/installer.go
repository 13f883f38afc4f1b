package provision

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/jackc/pgx/v5"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// Installer installs extensions into the target database. Stateless; safe
// for concurrent use with independent connections.
type Installer struct {
	log pgprovision.Logger
}

// NewInstaller creates an extension installer.
func NewInstaller(log pgprovision.Logger) *Installer {
	return &Installer{log: log}
}

// InstallExtensions installs the configured extensions in order. Every
// statement is idempotent (IF NOT EXISTS), so rerunning against an
// already-provisioned database is a no-op.
//
// The topology search-path invariant is checked before any SQL is issued:
// a topology extension without "topology" on the search path fails fast
// with ErrSchemaSearchPath and zero statements executed.
func (i *Installer) InstallExtensions(ctx context.Context, conn pgprovision.DBConnection, cfg *pgprovision.ProvisioningConfig) error {
	if cfg.RequiresTopology() && !cfg.SearchPathHasTopology() {
		return fmt.Errorf("extension %q requires schema %q on the search path (have %v): %w",
			pgprovision.TopologyExtension, pgprovision.TopologySchema, cfg.SearchPath,
			pgprovision.ErrSchemaSearchPath)
	}

	for _, ext := range cfg.Extensions {
		if err := i.installOne(ctx, conn, cfg, ext); err != nil {
			return err
		}
	}

	return nil
}

func (i *Installer) installOne(ctx context.Context, conn pgprovision.DBConnection, cfg *pgprovision.ProvisioningConfig, ext pgprovision.Extension) error {
	var stmt string

	switch {
	case ext.RequiresTopology():
		// The topology extension always targets the fixed topology
		// schema, regardless of any configured extension schema.
		stmt = fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s SCHEMA %s",
			pgx.Identifier{ext.Name}.Sanitize(),
			pgx.Identifier{pgprovision.TopologySchema}.Sanitize())

	case i.targetSchema(cfg, ext) != "":
		schema := i.targetSchema(cfg, ext)
		if err := i.ensureSchema(ctx, conn, schema); err != nil {
			return err
		}
		stmt = fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s WITH SCHEMA %s",
			pgx.Identifier{ext.Name}.Sanitize(),
			pgx.Identifier{schema}.Sanitize())

	default:
		stmt = fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s",
			pgx.Identifier{ext.Name}.Sanitize())
	}

	i.log.Verbose("executing: %s", stmt)
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to install extension %q: %w: %v", ext.Name, pgprovision.ErrSQLExecution, err)
	}
	i.log.Info("installed extension %q", ext.Name)

	if ext.MinVersion != "" {
		if err := i.verifyVersion(ctx, conn, ext); err != nil {
			return err
		}
	}

	return nil
}

// targetSchema returns the schema a non-topology extension installs into,
// or empty for the server default.
func (i *Installer) targetSchema(cfg *pgprovision.ProvisioningConfig, ext pgprovision.Extension) string {
	if ext.Schema != "" {
		return ext.Schema
	}
	return cfg.ExtensionSchema
}

// ensureSchema creates the schema if absent and grants usage to PUBLIC so
// every role can resolve the extension's objects through the search path.
func (i *Installer) ensureSchema(ctx context.Context, conn pgprovision.DBConnection, schema string) error {
	var exists bool
	if err := conn.QueryRow(ctx, querySchemaExists, schema).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check schema %q: %w: %v", schema, pgprovision.ErrSQLExecution, err)
	}
	if exists {
		i.log.Verbose("schema %q already exists", schema)
		return nil
	}

	quoted := pgx.Identifier{schema}.Sanitize()
	for _, stmt := range []string{
		"CREATE SCHEMA " + quoted,
		"GRANT USAGE ON SCHEMA " + quoted + " TO PUBLIC",
	} {
		i.log.Verbose("executing: %s", stmt)
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema %q: %w: %v", schema, pgprovision.ErrSQLExecution, err)
		}
	}
	i.log.Info("created schema %q", schema)
	return nil
}

// verifyVersion checks pg_extension.extversion against the configured
// minimum. Versions are parsed tolerantly because extensions publish
// two-segment versions like "3.4".
func (i *Installer) verifyVersion(ctx context.Context, conn pgprovision.DBConnection, ext pgprovision.Extension) error {
	var installed string
	if err := conn.QueryRow(ctx, queryExtensionVersion, ext.Name).Scan(&installed); err != nil {
		return fmt.Errorf("failed to read version of extension %q: %w: %v", ext.Name, pgprovision.ErrSQLExecution, err)
	}

	installedVer, err := semver.ParseTolerant(installed)
	if err != nil {
		return fmt.Errorf("cannot parse installed version %q of extension %q: %w", installed, ext.Name, err)
	}
	minVer, err := semver.ParseTolerant(ext.MinVersion)
	if err != nil {
		return fmt.Errorf("cannot parse configured minimum version %q for extension %q: %w: %v",
			ext.MinVersion, ext.Name, pgprovision.ErrInvalidConfig, err)
	}

	if installedVer.LT(minVer) {
		return fmt.Errorf("extension %q is at version %s, need at least %s: %w",
			ext.Name, installed, ext.MinVersion, pgprovision.ErrExtensionVersion)
	}

	i.log.Verbose("extension %q version %s satisfies minimum %s", ext.Name, installed, ext.MinVersion)
	return nil
}
