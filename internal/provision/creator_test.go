package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

func creatorConfig() *pgprovision.ProvisioningConfig {
	return &pgprovision.ProvisioningConfig{
		DatabaseName: "mapdata",
		Owner:        "gis",
		Encoding:     "UTF8",
		Superuser:    "postgres",
		Connection:   &pgprovision.ConnectionConfig{Host: "localhost", Port: 5432},
	}
}

func TestCreateDatabase_Created(t *testing.T) {
	conn := newMockDBConnection()
	creator := NewCreator(&mockLogger{})

	outcome, err := creator.CreateDatabase(context.Background(), conn, creatorConfig())
	require.NoError(t, err)
	assert.Equal(t, pgprovision.OutcomeCreated, outcome)

	require.Len(t, conn.execStmts, 1)
	assert.Equal(t, `CREATE DATABASE "mapdata" ENCODING 'UTF8' OWNER "gis"`, conn.execStmts[0])
	assert.Equal(t, 1, conn.acquired.released)
}

func TestCreateDatabase_AlreadyExistsBySQLState(t *testing.T) {
	conn := newMockDBConnection()
	conn.execErrs["CREATE DATABASE"] = &pgconn.PgError{
		Code:    pgerrcode.DuplicateDatabase,
		Message: `database "mapdata" already exists`,
	}
	creator := NewCreator(&mockLogger{})

	outcome, err := creator.CreateDatabase(context.Background(), conn, creatorConfig())
	require.NoError(t, err)
	assert.Equal(t, pgprovision.OutcomeAlreadyExists, outcome)
}

func TestCreateDatabase_AlreadyExistsByMessageText(t *testing.T) {
	// Poolers and proxies can strip the SQLSTATE; the message text still
	// identifies the condition.
	conn := newMockDBConnection()
	conn.execErrs["CREATE DATABASE"] = errors.New(`ERROR: database "mapdata" already exists`)
	creator := NewCreator(&mockLogger{})

	outcome, err := creator.CreateDatabase(context.Background(), conn, creatorConfig())
	require.NoError(t, err)
	assert.Equal(t, pgprovision.OutcomeAlreadyExists, outcome)
}

func TestCreateDatabase_OtherPgErrorIsFatal(t *testing.T) {
	conn := newMockDBConnection()
	conn.execErrs["CREATE DATABASE"] = &pgconn.PgError{
		Code:    pgerrcode.InsufficientPrivilege,
		Message: "permission denied to create database",
	}
	creator := NewCreator(&mockLogger{})

	outcome, err := creator.CreateDatabase(context.Background(), conn, creatorConfig())
	require.Error(t, err)
	assert.Equal(t, pgprovision.OutcomeFailed, outcome)
	assert.True(t, errors.Is(err, pgprovision.ErrSQLExecution))
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCreateDatabase_AcquireFailure(t *testing.T) {
	conn := newMockDBConnection()
	conn.acquireErr = errors.New("pool exhausted")
	creator := NewCreator(&mockLogger{})

	outcome, err := creator.CreateDatabase(context.Background(), conn, creatorConfig())
	require.Error(t, err)
	assert.Equal(t, pgprovision.OutcomeFailed, outcome)
	assert.Empty(t, conn.execStmts)
}

func TestBuildCreateDatabaseStatement(t *testing.T) {
	tests := []struct {
		name string
		cfg  *pgprovision.ProvisioningConfig
		want string
	}{
		{
			name: "encoding and owner",
			cfg: &pgprovision.ProvisioningConfig{
				DatabaseName: "mapdata", Owner: "gis", Superuser: "postgres", Encoding: "UTF8",
			},
			want: `CREATE DATABASE "mapdata" ENCODING 'UTF8' OWNER "gis"`,
		},
		{
			name: "owner creates for itself, no OWNER clause",
			cfg: &pgprovision.ProvisioningConfig{
				DatabaseName: "mapdata", Owner: "gis", Encoding: "UTF8",
			},
			want: `CREATE DATABASE "mapdata" ENCODING 'UTF8'`,
		},
		{
			name: "no encoding",
			cfg: &pgprovision.ProvisioningConfig{
				DatabaseName: "mapdata", Owner: "gis", Superuser: "postgres",
			},
			want: `CREATE DATABASE "mapdata" OWNER "gis"`,
		},
		{
			name: "identifier quoting",
			cfg: &pgprovision.ProvisioningConfig{
				DatabaseName: `odd"name`, Encoding: "UTF8",
			},
			want: `CREATE DATABASE "odd""name" ENCODING 'UTF8'`,
		},
		{
			name: "encoding literal escaping",
			cfg: &pgprovision.ProvisioningConfig{
				DatabaseName: "mapdata", Encoding: "UT'F8",
			},
			want: `CREATE DATABASE "mapdata" ENCODING 'UT''F8'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildCreateDatabaseStatement(tt.cfg))
		})
	}
}

func TestIsDuplicateDatabase(t *testing.T) {
	assert.True(t, isDuplicateDatabase(&pgconn.PgError{Code: pgerrcode.DuplicateDatabase}))
	assert.False(t, isDuplicateDatabase(&pgconn.PgError{Code: pgerrcode.InsufficientPrivilege}))
	assert.True(t, isDuplicateDatabase(errors.New(`database "x" already exists`)))
	assert.False(t, isDuplicateDatabase(errors.New("connection reset by peer")))
	// PgError with a non-duplicate code never falls through to text matching.
	assert.False(t, isDuplicateDatabase(&pgconn.PgError{
		Code: pgerrcode.UniqueViolation, Message: "database already exists lookalike",
	}))
}
