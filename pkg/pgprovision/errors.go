package pgprovision

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios. Callers distinguish error
// types with errors.Is().
//
// Example:
//
//	res, err := provisioner.Provision(ctx, cfg)
//	if errors.Is(err, pgprovision.ErrSchemaSearchPath) {
//	    // topology requested without "topology" on the search path
//	}
var (
	// ErrInvalidConfig indicates the provisioning request is incomplete or
	// inconsistent. Surfaced before any connection is opened.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates a network or authentication failure.
	// Fatal per attempt; retry policy belongs to the caller.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchemaSearchPath indicates a topology extension was requested
	// without the topology schema on the search path. Raised before any
	// SQL is issued.
	ErrSchemaSearchPath = errors.New("schema search path missing topology")

	// ErrSQLExecution wraps a server-side DDL failure. The original
	// server message is preserved in the wrapping error.
	ErrSQLExecution = errors.New("sql execution failed")

	// ErrExtensionVersion indicates an installed extension does not meet
	// the configured minimum version.
	ErrExtensionVersion = errors.New("extension version too old")

	// ErrUnsupportedAuthMethod indicates the requested authentication
	// method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrDumpToolNotFound indicates the external dump/restore client
	// binary is not on PATH.
	ErrDumpToolNotFound = errors.New("client tool not found")
)

// ExitCodeForError returns the exit code for an error: ExitSuccess for nil,
// semantic codes for known errors, ExitGeneralError otherwise.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSchemaSearchPath):
		return ExitSearchPathError
	case errors.Is(err, ErrExtensionVersion):
		return ExitExecutionFailed
	case errors.Is(err, ErrSQLExecution):
		return ExitExecutionFailed
	case errors.Is(err, ErrDumpToolNotFound):
		return ExitDumpToolMissing
	}

	// Raw connection failures that escaped wrapping still map to the
	// connection exit code.
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
