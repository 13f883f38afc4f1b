package provision

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// mockDBConnection records every statement it sees and answers QueryRow
// from scripted rows keyed by query text.
type mockDBConnection struct {
	execStmts  []string
	execErrs   map[string]error // statement substring -> error
	rows       map[string]*mockRow
	acquireErr error
	acquired   *mockPooledConnection
}

func newMockDBConnection() *mockDBConnection {
	return &mockDBConnection{
		execErrs: make(map[string]error),
		rows:     make(map[string]*mockRow),
	}
}

func (m *mockDBConnection) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	m.execStmts = append(m.execStmts, sql)
	for substr, err := range m.execErrs {
		if err != nil && strings.Contains(sql, substr) {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.CommandTag{}, nil
}

func (m *mockDBConnection) QueryRow(_ context.Context, sql string, _ ...any) pgprovision.Row {
	for substr, row := range m.rows {
		if strings.Contains(sql, substr) {
			return row
		}
	}
	return &mockRow{err: errNoScript}
}

func (m *mockDBConnection) Acquire(_ context.Context) (pgprovision.PooledConnection, error) {
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	if m.acquired == nil {
		m.acquired = &mockPooledConnection{parent: m}
	}
	return m.acquired, nil
}

type mockRow struct {
	values []any
	err    error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.values {
		if i >= len(dest) {
			break
		}
		switch d := dest[i].(type) {
		case *bool:
			*d = v.(bool)
		case *string:
			*d = v.(string)
		}
	}
	return nil
}

// mockPooledConnection funnels Exec back to the parent so a single
// statement log covers both paths, and counts releases.
type mockPooledConnection struct {
	parent   *mockDBConnection
	released int
}

func (m *mockPooledConnection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return m.parent.Exec(ctx, sql, args...)
}

func (m *mockPooledConnection) Release() {
	m.released++
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}

var errNoScript = errors.New("no scripted row for query")
