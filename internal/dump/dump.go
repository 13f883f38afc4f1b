// Package dump shells out to the PostgreSQL client tools for structure
// dump and load. The provisioning core treats the tools as external
// collaborators: it hands them a connection descriptor and a path and
// surfaces their output on failure.
package dump

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

const (
	dumpTool = "pg_dump"
	loadTool = "psql"
)

// Dumper runs structure dumps and loads against the target database.
type Dumper struct {
	log pgprovision.Logger

	// lookPath resolves client binaries; overridable in tests.
	lookPath func(string) (string, error)
}

// NewDumper creates a Dumper.
func NewDumper(log pgprovision.Logger) *Dumper {
	return &Dumper{log: log, lookPath: exec.LookPath}
}

// DumpStructure writes the target database's schema-only dump to outPath.
func (d *Dumper) DumpStructure(ctx context.Context, cfg *pgprovision.ProvisioningConfig, outPath string) error {
	tool, err := d.lookPath(dumpTool)
	if err != nil {
		return fmt.Errorf("%s: %w", dumpTool, pgprovision.ErrDumpToolNotFound)
	}

	args := dumpArgs(cfg, outPath)
	d.log.Verbose("running %s %v", dumpTool, args)

	return d.run(ctx, tool, args, cfg)
}

// LoadStructure replays a structure dump from inPath into the target
// database, stopping at the first error.
func (d *Dumper) LoadStructure(ctx context.Context, cfg *pgprovision.ProvisioningConfig, inPath string) error {
	tool, err := d.lookPath(loadTool)
	if err != nil {
		return fmt.Errorf("%s: %w", loadTool, pgprovision.ErrDumpToolNotFound)
	}

	args := loadArgs(cfg, inPath)
	d.log.Verbose("running %s %v", loadTool, args)

	return d.run(ctx, tool, args, cfg)
}

func (d *Dumper) run(ctx context.Context, tool string, args []string, cfg *pgprovision.ProvisioningConfig) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+connectPassword(cfg))

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w, output: %s", tool, err, string(output))
	}
	return nil
}

// dumpArgs builds the pg_dump argument list. Schema only: provisioning
// owns structure, never data.
func dumpArgs(cfg *pgprovision.ProvisioningConfig, outPath string) []string {
	return append(connectArgs(cfg),
		"--schema-only",
		"-f", outPath,
	)
}

// loadArgs builds the psql argument list. ON_ERROR_STOP keeps a partial
// load from silently succeeding.
func loadArgs(cfg *pgprovision.ProvisioningConfig, inPath string) []string {
	return append(connectArgs(cfg),
		"-v", "ON_ERROR_STOP=1",
		"-f", inPath,
	)
}

func connectArgs(cfg *pgprovision.ProvisioningConfig) []string {
	return []string{
		"-h", cfg.Connection.Host,
		"-p", fmt.Sprintf("%d", cfg.Connection.Port),
		"-U", connectUser(cfg),
		"-d", cfg.DatabaseName,
	}
}

func connectUser(cfg *pgprovision.ProvisioningConfig) string {
	if cfg.Owner != "" {
		return cfg.Owner
	}
	return cfg.EffectiveSuperuser()
}

func connectPassword(cfg *pgprovision.ProvisioningConfig) string {
	if cfg.Owner != "" && cfg.OwnerPassword != "" {
		return cfg.OwnerPassword
	}
	if cfg.Connection.Password != "" {
		return cfg.Connection.Password
	}
	return cfg.EffectiveSuperuserPassword()
}
