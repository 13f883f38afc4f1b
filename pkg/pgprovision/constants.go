package pgprovision

import "time"

// Exit codes for semantic error classification, following Unix/GNU
// conventions: 0 success, 1 general error, 2 CLI usage error, 3+
// application-specific.
const (
	ExitSuccess         = 0  // provisioning completed (created or already existed)
	ExitGeneralError    = 1  // unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // internal panic
	ExitConfigError     = 10 // invalid configuration
	ExitConnectionError = 11 // failed to connect to the server
	ExitExecutionFailed = 13 // DDL execution failed
	ExitSearchPathError = 14 // topology requested without topology schema
	ExitDumpToolMissing = 15 // pg_dump/psql not found on PATH
)

const (
	// DefaultExtension is installed when the config names none.
	DefaultExtension = "postgis"

	// TopologyExtension always installs into TopologySchema, regardless
	// of any configured extension schema.
	TopologyExtension = "postgis_topology"

	// TopologySchema is the fixed schema the topology extension requires.
	TopologySchema = "topology"

	// DefaultEncoding is used for CREATE DATABASE when unset.
	DefaultEncoding = "UTF8"

	// DefaultMaintenanceDB is the database admin connections attach to
	// for server-level operations.
	DefaultMaintenanceDB = "postgres"

	// DefaultConnectTimeout bounds each connection attempt.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultRunTimeout bounds a whole provisioning run. Catastrophic
	// failure protection, not fine-grained timeout control.
	DefaultRunTimeout = 3 * time.Minute

	// DefaultRetryInitialDelay is the delay before the first retry of a
	// transient connection failure.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay caps the delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3
)
