package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spatialops/pgprovision/internal/db"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// connectFunc opens a connection for one provisioning phase. The returned
// closer releases the underlying pool; callers defer it so the handle is
// released on every exit path. Tests inject fakes here.
type connectFunc func(ctx context.Context, cc *pgprovision.ConnectionConfig) (pgprovision.DBConnection, func(), error)

// Provisioner orchestrates a provisioning run:
//
//	Start -> AdminConnected -> DatabaseCreated|DatabaseExists
//	      -> TargetConnected -> ExtensionsInstalled -> Done
//
// Both creation outcomes advance to the target phase, which makes
// re-provisioning idempotent end to end. Each phase owns its connection
// handle exclusively and releases it before the next phase begins.
//
// Provisioner instances are cheap; create one per concurrent run.
type Provisioner struct {
	log       pgprovision.Logger
	creator   *Creator
	installer *Installer
	connect   connectFunc
}

// New creates a Provisioner using the real connector stack.
func New(log pgprovision.Logger) *Provisioner {
	return &Provisioner{
		log:       log,
		creator:   NewCreator(log),
		installer: NewInstaller(log),
		connect:   poolConnect,
	}
}

// poolConnect builds a Connector for the config's auth method and wraps
// the resulting pool as a DBConnection.
func poolConnect(ctx context.Context, cc *pgprovision.ConnectionConfig) (pgprovision.DBConnection, func(), error) {
	connector, err := db.NewConnector(cc)
	if err != nil {
		return nil, nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	return db.NewPoolAdapter(pool), pool.Close, nil
}

// Provision runs the full sequence against the configured server.
func (p *Provisioner) Provision(ctx context.Context, cfg *pgprovision.ProvisioningConfig) (*pgprovision.Result, error) {
	start := time.Now()
	runID := uuid.New()

	result := &pgprovision.Result{RunID: runID}
	fail := func(err error) (*pgprovision.Result, error) {
		result.Outcome = pgprovision.OutcomeFailed
		result.Err = err
		result.Duration = time.Since(start)
		return result, err
	}

	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	p.log.Verbose("provisioning run %s for database %q", runID, cfg.DatabaseName)

	outcome, err := p.createPhase(ctx, cfg, runID)
	if err != nil {
		return fail(err)
	}
	result.Outcome = outcome

	if err := p.installPhase(ctx, cfg, runID); err != nil {
		return fail(err)
	}

	result.Duration = time.Since(start)
	p.log.Info("provisioning %s: database %q %s in %s",
		runID, cfg.DatabaseName, outcome, result.Duration.Round(time.Millisecond))
	return result, nil
}

// InstallExtensions connects to an existing target database and installs
// the configured extensions. Used by the `extensions` subcommand.
func (p *Provisioner) InstallExtensions(ctx context.Context, cfg *pgprovision.ProvisioningConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	return p.installPhase(ctx, cfg, uuid.New())
}

// createPhase connects to the maintenance database as the superuser and
// creates the target database. The admin handle is released before the
// target phase connects.
func (p *Provisioner) createPhase(ctx context.Context, cfg *pgprovision.ProvisioningConfig, runID uuid.UUID) (pgprovision.Outcome, error) {
	conn, release, err := p.connect(ctx, adminConnectionConfig(cfg, runID))
	if err != nil {
		return pgprovision.OutcomeFailed, err
	}
	defer release()

	return p.creator.CreateDatabase(ctx, conn, cfg)
}

// installPhase connects to the target database as the owner and installs
// extensions.
func (p *Provisioner) installPhase(ctx context.Context, cfg *pgprovision.ProvisioningConfig, runID uuid.UUID) error {
	conn, release, err := p.connect(ctx, targetConnectionConfig(cfg, runID))
	if err != nil {
		return err
	}
	defer release()

	return p.installer.InstallExtensions(ctx, conn, cfg)
}

// adminConnectionConfig derives the admin-phase connection: maintenance
// database, superuser credentials, search path forced to public so catalog
// lookups never resolve against user schemas.
func adminConnectionConfig(cfg *pgprovision.ProvisioningConfig, runID uuid.UUID) *pgprovision.ConnectionConfig {
	cc := cfg.Connection.Clone()
	cc.Database = cfg.MaintenanceDatabase
	if cc.Database == "" {
		cc.Database = pgprovision.DefaultMaintenanceDB
	}
	if u := cfg.EffectiveSuperuser(); u != "" {
		cc.Username = u
	}
	if pw := cfg.EffectiveSuperuserPassword(); pw != "" {
		cc.Password = pw
	}
	cc.ForcedSearchPath = "public"
	cc.AppName = appName(cc.AppName, runID)
	return cc
}

// targetConnectionConfig derives the target-phase connection: the new
// database, owner credentials, configured search path.
func targetConnectionConfig(cfg *pgprovision.ProvisioningConfig, runID uuid.UUID) *pgprovision.ConnectionConfig {
	cc := cfg.Connection.Clone()
	cc.Database = cfg.DatabaseName
	if cfg.Owner != "" {
		cc.Username = cfg.Owner
		if cfg.OwnerPassword != "" {
			cc.Password = cfg.OwnerPassword
		}
	} else {
		if u := cfg.EffectiveSuperuser(); u != "" {
			cc.Username = u
		}
		if pw := cfg.EffectiveSuperuserPassword(); pw != "" {
			cc.Password = pw
		}
	}
	cc.AppName = appName(cc.AppName, runID)
	return cc
}

// appName tags application_name with the run ID so sessions show up
// attributably in pg_stat_activity.
func appName(base string, runID uuid.UUID) string {
	if base == "" {
		base = "pgprovision"
	}
	return fmt.Sprintf("%s-%s", base, runID)
}

var _ pgprovision.Provisioner = (*Provisioner)(nil)
