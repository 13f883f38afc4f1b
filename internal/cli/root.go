package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgprovision",
	Short: "Provision spatially enabled PostgreSQL databases",
	Long: `pgprovision creates PostGIS-enabled databases from a declarative config:
it creates the database, installs the configured extensions idempotently
with correct schema placement, and can dump or load the resulting
structure.

Re-running against an existing database is safe: "already exists" is a
success, and every extension statement is IF NOT EXISTS.

Exit Codes:
  0  - Success (database created or already existed)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  13 - DDL execution failed
  14 - Topology extension requested without topology on the search path
  15 - pg_dump/psql not found on PATH`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
