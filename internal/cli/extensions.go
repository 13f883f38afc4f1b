package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spatialops/pgprovision/internal/logging"
	"github.com/spatialops/pgprovision/internal/provision"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

func init() {
	rootCmd.AddCommand(newExtensionsCmd())
}

func newExtensionsCmd() *cobra.Command {
	flags := &connFlagValues{}

	cmd := &cobra.Command{
		Use:   "extensions <config-file>",
		Short: "Install extensions into an existing database",
		Long: `Install the configured extensions into an already provisioned database.

Connects directly to the target database and runs CREATE EXTENSION IF NOT
EXISTS for each configured extension, so re-running against a database that
already has them is a no-op. The database must exist; use "create" when it
does not.`,
		Example: `  pgprovision extensions db.yaml
  pgprovision extensions db.yaml --extension postgis_raster`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildProvisioningConfig(cmd, args[0], flags)
			if err != nil {
				return err
			}
			return runExtensions(cmd.Context(), cfg)
		},
	}

	addConnectionFlags(cmd, flags)
	return cmd
}

func runExtensions(ctx context.Context, cfg *pgprovision.ProvisioningConfig) error {
	log := logging.NewConsoleLogger(cfg.Verbose)
	p := provision.New(log)

	if err := p.InstallExtensions(ctx, cfg); err != nil {
		return err
	}

	names := make([]string, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		names[i] = ext.Name
	}
	log.Info(fmt.Sprintf("Extensions installed in %q: %v", cfg.DatabaseName, names))
	return nil
}
