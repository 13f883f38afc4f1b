package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// TransientClassifier classifies PostgreSQL and network errors as transient
// (retryable) or fatal.
type TransientClassifier struct{}

// NewTransientClassifier creates a classifier for PostgreSQL connections.
func NewTransientClassifier() *TransientClassifier {
	return &TransientClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *TransientClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code)
	}

	return isNetworkError(err) || hasTransientMessage(err)
}

// isTransientCode checks SQLSTATE codes for transient conditions.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func isTransientCode(code string) bool {
	switch {
	case pgerrcode.IsConnectionException(code):
		return true
	case pgerrcode.IsInsufficientResources(code):
		return true
	case pgerrcode.IsOperatorIntervention(code):
		return true
	}

	switch code {
	case pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable:
		return true
	}

	return false
}

// isNetworkError checks for retryable network-level failures.
func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{
			syscall.ECONNREFUSED,
			syscall.ECONNRESET,
			syscall.ENETUNREACH,
			syscall.EHOSTUNREACH,
		} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}

	return false
}

// transientPatterns matches error text from drivers and poolers that do not
// surface structured SQLSTATE codes.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"connection failure",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"context deadline exceeded",
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
