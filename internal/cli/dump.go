package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spatialops/pgprovision/internal/dump"
	"github.com/spatialops/pgprovision/internal/logging"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newLoadCmd())
}

func newDumpCmd() *cobra.Command {
	flags := &connFlagValues{}
	var outFile string

	cmd := &cobra.Command{
		Use:   "dump <config-file>",
		Short: "Dump the target database structure with pg_dump",
		Long: `Export the schema of the target database (no data) to a SQL file using
pg_dump. The pg_dump binary must be on PATH.`,
		Example: `  pgprovision dump db.yaml -f structure.sql`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildProvisioningConfig(cmd, args[0], flags)
			if err != nil {
				return err
			}
			log := logging.NewConsoleLogger(cfg.Verbose)
			if err := dump.NewDumper(log).DumpStructure(cmd.Context(), cfg, outFile); err != nil {
				return err
			}
			log.Info(fmt.Sprintf("Structure of %q written to %s", cfg.DatabaseName, outFile))
			return nil
		},
	}

	addConnectionFlags(cmd, flags)
	cmd.Flags().StringVarP(&outFile, "file", "f", "structure.sql", "Output SQL file")
	return cmd
}

func newLoadCmd() *cobra.Command {
	flags := &connFlagValues{}
	var inFile string

	cmd := &cobra.Command{
		Use:   "load <config-file>",
		Short: "Load a structure dump into the target database with psql",
		Long: `Apply a previously dumped structure file to the target database using
psql with ON_ERROR_STOP, so the first failing statement aborts the load.
The psql binary must be on PATH.`,
		Example: `  pgprovision load db.yaml -f structure.sql`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildProvisioningConfig(cmd, args[0], flags)
			if err != nil {
				return err
			}
			log := logging.NewConsoleLogger(cfg.Verbose)
			if err := dump.NewDumper(log).LoadStructure(cmd.Context(), cfg, inFile); err != nil {
				return err
			}
			log.Info(fmt.Sprintf("Structure loaded into %q from %s", cfg.DatabaseName, inFile))
			return nil
		},
	}

	addConnectionFlags(cmd, flags)
	cmd.Flags().StringVarP(&inFile, "file", "f", "structure.sql", "Input SQL file")
	return cmd
}
