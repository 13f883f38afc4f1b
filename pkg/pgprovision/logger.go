package pgprovision

// Logger is the pluggable logging interface for provisioning operations.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Verbose logs detailed diagnostics. Only emitted in verbose mode.
	Verbose(format string, args ...interface{})

	// Info logs normal operational messages.
	Info(format string, args ...interface{})

	// Error logs failures.
	Error(format string, args ...interface{})
}
