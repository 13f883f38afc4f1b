package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(&File{Database: "mapdata"})
	require.NoError(t, err)

	assert.Equal(t, "mapdata", cfg.DatabaseName)
	assert.Equal(t, pgprovision.DefaultEncoding, cfg.Encoding)
	assert.Equal(t, pgprovision.DefaultMaintenanceDB, cfg.MaintenanceDatabase)
	assert.Equal(t, []string{"public"}, cfg.SearchPath)
	assert.Equal(t, pgprovision.DefaultRunTimeout, cfg.Timeout)

	require.Len(t, cfg.Extensions, 1)
	assert.Equal(t, pgprovision.DefaultExtension, cfg.Extensions[0].Name)
	assert.Empty(t, cfg.Extensions[0].MinVersion)

	require.NotNil(t, cfg.Connection)
	assert.Equal(t, "localhost", cfg.Connection.Host)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, "prefer", cfg.Connection.SSLMode)
	assert.Equal(t, pgprovision.AuthMethodStandard, cfg.Connection.AuthMethod)
	assert.Equal(t, pgprovision.DefaultConnectTimeout, cfg.Connection.ConnectTimeout)
}

func TestResolve_MissingDatabase(t *testing.T) {
	_, err := Resolve(&File{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgprovision.ErrInvalidConfig))
}

func TestResolve_NilRecord(t *testing.T) {
	_, err := Resolve(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgprovision.ErrInvalidConfig))
}

func TestResolve_ExtensionsWithMinVersions(t *testing.T) {
	cfg, err := Resolve(&File{
		Database:   "mapdata",
		Extensions: StringList{"postgis", "postgis_topology"},
		MinVersions: map[string]string{
			"postgis": "3.3.0",
		},
		SearchPath: StringList{"public", "topology"},
	})
	require.NoError(t, err)

	require.Len(t, cfg.Extensions, 2)
	assert.Equal(t, "postgis", cfg.Extensions[0].Name)
	assert.Equal(t, "3.3.0", cfg.Extensions[0].MinVersion)
	assert.Equal(t, "postgis_topology", cfg.Extensions[1].Name)
	assert.Empty(t, cfg.Extensions[1].MinVersion)
}

func TestResolve_ExtensionOrderPreserved(t *testing.T) {
	cfg, err := Resolve(&File{
		Database:   "mapdata",
		Extensions: StringList{"postgis", "postgis_raster", "postgis_topology"},
		SearchPath: StringList{"public", "topology"},
	})
	require.NoError(t, err)

	names := make([]string, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		names[i] = ext.Name
	}
	assert.Equal(t, []string{"postgis", "postgis_raster", "postgis_topology"}, names)
}

func TestResolve_Timeout(t *testing.T) {
	cfg, err := Resolve(&File{Database: "mapdata", Timeout: "45s"})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestResolve_InvalidTimeout(t *testing.T) {
	_, err := Resolve(&File{Database: "mapdata", Timeout: "soon"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgprovision.ErrInvalidConfig))
}

func TestResolve_CloudConnectionFields(t *testing.T) {
	cfg, err := Resolve(&File{
		Database: "mapdata",
		Connection: ConnectionSection{
			AuthMethod:    "azure-entra-id",
			AzureTenantID: "tenant",
			AzureClientID: "client",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, pgprovision.AuthMethodAzureEntraID, cfg.Connection.AuthMethod)
	assert.Equal(t, "tenant", cfg.Connection.AzureTenantID)
	assert.Equal(t, "client", cfg.Connection.AzureClientID)
}

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want pgprovision.AuthMethod
	}{
		{"", pgprovision.AuthMethodStandard},
		{"standard", pgprovision.AuthMethodStandard},
		{"aws-iam", pgprovision.AuthMethodAWSIAM},
		{"aws", pgprovision.AuthMethodAWSIAM},
		{"google-iam", pgprovision.AuthMethodGoogleIAM},
		{"google", pgprovision.AuthMethodGoogleIAM},
		{"azure-entra-id", pgprovision.AuthMethodAzureEntraID},
		{"azure", pgprovision.AuthMethodAzureEntraID},
	}

	for _, tt := range tests {
		t.Run("method_"+tt.raw, func(t *testing.T) {
			got, err := ParseAuthMethod(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAuthMethod_Unknown(t *testing.T) {
	_, err := ParseAuthMethod("kerberos")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgprovision.ErrUnsupportedAuthMethod))
}
