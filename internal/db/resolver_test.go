package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

func baseConnection() *pgprovision.ConnectionConfig {
	return &pgprovision.ConnectionConfig{
		Host:    "file-host",
		Port:    5433,
		SSLMode: "require",
	}
}

func TestResolveConnectionParams_FileOnly(t *testing.T) {
	cfg, err := ResolveConnectionParams(&Flags{}, &EnvVars{}, baseConnection())
	require.NoError(t, err)

	assert.Equal(t, "file-host", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, pgprovision.DefaultConnectTimeout, cfg.ConnectTimeout)
}

func TestResolveConnectionParams_Defaults(t *testing.T) {
	cfg, err := ResolveConnectionParams(&Flags{}, &EnvVars{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "prefer", cfg.SSLMode)
}

func TestResolveConnectionParams_EnvOverridesFile(t *testing.T) {
	env := &EnvVars{PGHost: "env-host", PGPort: "6000", PGUser: "envuser", PGSSLMode: "disable", PGPassword: "envpw"}

	cfg, err := ResolveConnectionParams(&Flags{}, env, baseConnection())
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "envuser", cfg.Username)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, "envpw", cfg.Password)
}

func TestResolveConnectionParams_FlagsOverrideEnv(t *testing.T) {
	env := &EnvVars{PGHost: "env-host", PGPort: "6000"}
	flags := &Flags{Host: "flag-host", Port: 7000, Username: "flaguser", SSLMode: "verify-ca"}

	cfg, err := ResolveConnectionParams(flags, env, baseConnection())
	require.NoError(t, err)

	assert.Equal(t, "flag-host", cfg.Host)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "flaguser", cfg.Username)
	assert.Equal(t, "verify-ca", cfg.SSLMode)
}

func TestResolveConnectionParams_ConnStringFlagWins(t *testing.T) {
	flags := &Flags{Connection: "postgresql://u:p@cs-host:5444/db?sslmode=require"}
	env := &EnvVars{PGHost: "env-host", DatabaseURL: "postgresql://other:5555/x"}

	cfg, err := ResolveConnectionParams(flags, env, baseConnection())
	require.NoError(t, err)

	assert.Equal(t, "cs-host", cfg.Host)
	assert.Equal(t, 5444, cfg.Port)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, "p", cfg.Password)
	// Explicit connection string shields host/port from environment.
	assert.NotEqual(t, "env-host", cfg.Host)
}

func TestResolveConnectionParams_DatabaseURLUsedWithoutGranularFlags(t *testing.T) {
	env := &EnvVars{DatabaseURL: "postgresql://u@url-host:5445/db"}

	cfg, err := ResolveConnectionParams(&Flags{}, env, baseConnection())
	require.NoError(t, err)
	assert.Equal(t, "url-host", cfg.Host)
	assert.Equal(t, 5445, cfg.Port)
}

func TestResolveConnectionParams_GranularFlagsSuppressDatabaseURL(t *testing.T) {
	env := &EnvVars{DatabaseURL: "postgresql://u@url-host:5445/db"}
	flags := &Flags{Host: "flag-host"}

	cfg, err := ResolveConnectionParams(flags, env, baseConnection())
	require.NoError(t, err)
	assert.Equal(t, "flag-host", cfg.Host)
	assert.Equal(t, 5433, cfg.Port) // from the file, not the URL
}

func TestResolveConnectionParams_ConnStringKeepsCloudParams(t *testing.T) {
	base := baseConnection()
	base.AuthMethod = pgprovision.AuthMethodAWSIAM
	base.AWSRegion = "eu-west-1"

	flags := &Flags{Connection: "postgresql://u@cs-host:5444/db"}
	cfg, err := ResolveConnectionParams(flags, &EnvVars{}, base)
	require.NoError(t, err)

	assert.Equal(t, pgprovision.AuthMethodAWSIAM, cfg.AuthMethod)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
}

func TestResolveConnectionParams_CloudEnvFillsGaps(t *testing.T) {
	env := &EnvVars{
		AzureTenantID:     "tenant",
		AzureClientID:     "client",
		AzureClientSecret: "secret",
		AWSRegion:         "us-east-1",
	}

	cfg, err := ResolveConnectionParams(&Flags{}, env, baseConnection())
	require.NoError(t, err)
	assert.Equal(t, "tenant", cfg.AzureTenantID)
	assert.Equal(t, "client", cfg.AzureClientID)
	assert.Equal(t, "secret", cfg.AzureClientSecret)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
}

func TestResolveConnectionParams_EnvPasswordNeverOverwrites(t *testing.T) {
	base := baseConnection()
	base.Password = "filepw"

	cfg, err := ResolveConnectionParams(&Flags{}, &EnvVars{PGPassword: "envpw"}, base)
	require.NoError(t, err)
	assert.Equal(t, "filepw", cfg.Password)
}

func TestResolveConnectionParams_InvalidConnString(t *testing.T) {
	_, err := ResolveConnectionParams(&Flags{Connection: "::bad::"}, &EnvVars{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgprovision.ErrInvalidConfig)
}

func TestResolveConnectionParams_BaseNotMutated(t *testing.T) {
	base := baseConnection()
	flags := &Flags{Host: "flag-host"}

	_, err := ResolveConnectionParams(flags, &EnvVars{}, base)
	require.NoError(t, err)
	assert.Equal(t, "file-host", base.Host)
}

func TestFlagsHasGranular(t *testing.T) {
	assert.False(t, (&Flags{}).HasGranular())
	assert.False(t, (*Flags)(nil).HasGranular())
	assert.True(t, (&Flags{Host: "h"}).HasGranular())
	assert.True(t, (&Flags{Port: 5432}).HasGranular())
	assert.True(t, (&Flags{Username: "u"}).HasGranular())
	assert.True(t, (&Flags{SSLMode: "disable"}).HasGranular())
}
