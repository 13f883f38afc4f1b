package retry

import (
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient_Nil(t *testing.T) {
	assert.False(t, NewTransientClassifier().IsTransient(nil))
}

func TestIsTransient_SQLStates(t *testing.T) {
	c := NewTransientClassifier()

	transient := []string{
		pgerrcode.ConnectionFailure,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.TooManyConnections,
		pgerrcode.AdminShutdown,
		pgerrcode.CannotConnectNow,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable,
	}
	for _, code := range transient {
		assert.True(t, c.IsTransient(&pgconn.PgError{Code: code}), "code %s", code)
	}

	fatal := []string{
		pgerrcode.InvalidPassword,
		pgerrcode.InsufficientPrivilege,
		pgerrcode.DuplicateDatabase,
		pgerrcode.UndefinedTable,
		pgerrcode.SyntaxError,
	}
	for _, code := range fatal {
		assert.False(t, c.IsTransient(&pgconn.PgError{Code: code}), "code %s", code)
	}
}

func TestIsTransient_NetworkErrors(t *testing.T) {
	c := NewTransientClassifier()

	assert.True(t, c.IsTransient(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	assert.True(t, c.IsTransient(&net.OpError{Op: "read", Err: syscall.ECONNRESET}))
	assert.True(t, c.IsTransient(&net.DNSError{IsTimeout: true}))
	assert.False(t, c.IsTransient(&net.DNSError{}))
}

func TestIsTransient_MessagePatterns(t *testing.T) {
	c := NewTransientClassifier()

	assert.True(t, c.IsTransient(errors.New("dial tcp: Connection refused")))
	assert.True(t, c.IsTransient(errors.New("FATAL: too many connections for role")))
	assert.True(t, c.IsTransient(errors.New("unexpected EOF")))
	assert.False(t, c.IsTransient(errors.New("password authentication failed")))
}
