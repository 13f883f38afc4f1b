package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spatialops/pgprovision/internal/logging"
	"github.com/spatialops/pgprovision/internal/provision"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// timeRound keeps reported durations readable.
const timeRound = 10 * time.Millisecond

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	flags := &connFlagValues{}

	cmd := &cobra.Command{
		Use:   "create <config-file>",
		Short: "Create a database and install its extensions",
		Long: `Create the target database on the server described by the config file,
then install the configured extensions into it.

An already existing database is not an error: creation is skipped, extension
installation still runs, and the command exits 0. Any other failure during
creation or installation is fatal.`,
		Example: `  pgprovision create db.yaml
  pgprovision create db.yaml --host db.example.com -p 5433
  pgprovision create db.yaml -d mapdata --extension postgis --extension postgis_topology`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildProvisioningConfig(cmd, args[0], flags)
			if err != nil {
				return err
			}
			return runCreate(cmd.Context(), cfg)
		},
	}

	addConnectionFlags(cmd, flags)
	return cmd
}

func runCreate(ctx context.Context, cfg *pgprovision.ProvisioningConfig) error {
	log := logging.NewConsoleLogger(cfg.Verbose)
	p := provision.New(log)

	result, err := p.Provision(ctx, cfg)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case pgprovision.OutcomeAlreadyExists:
		log.Info(fmt.Sprintf("Database %q already exists, extensions up to date (%s)",
			cfg.DatabaseName, result.Duration.Round(timeRound)))
	default:
		log.Info(fmt.Sprintf("Database %q provisioned (%s)",
			cfg.DatabaseName, result.Duration.Round(timeRound)))
	}
	return nil
}
