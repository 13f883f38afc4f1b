package config

import (
	"fmt"
	"time"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// Resolve turns a raw config record into a normalized ProvisioningConfig.
// This is the single boundary where record-format variance (comma strings
// vs lists, missing defaults, auth method spellings) is absorbed; the rest
// of the system only ever sees the normalized form.
//
// Pure transformation: no I/O, no environment access. Environment and flag
// overlays happen in the CLI before this is called.
func Resolve(raw *File) (*pgprovision.ProvisioningConfig, error) {
	if raw == nil {
		return nil, fmt.Errorf("config record is nil: %w", pgprovision.ErrInvalidConfig)
	}
	if raw.Database == "" {
		return nil, fmt.Errorf("database name is required: %w", pgprovision.ErrInvalidConfig)
	}

	authMethod, err := ParseAuthMethod(raw.Connection.AuthMethod)
	if err != nil {
		return nil, err
	}

	timeout := pgprovision.DefaultRunTimeout
	if raw.Timeout != "" {
		timeout, err = time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", raw.Timeout, pgprovision.ErrInvalidConfig)
		}
	}

	cfg := &pgprovision.ProvisioningConfig{
		DatabaseName:      raw.Database,
		Owner:             raw.Owner,
		OwnerPassword:     raw.OwnerPassword,
		Superuser:         raw.Superuser,
		SuperuserPassword: raw.SuperuserPassword,
		Encoding:          raw.Encoding,
		SearchPath:        raw.SearchPath,
		ExtensionSchema:   raw.ExtensionSchema,
		Extensions:        resolveExtensions(raw),
		Timeout:           timeout,
		Connection: &pgprovision.ConnectionConfig{
			Host:           raw.Connection.Host,
			Port:           raw.Connection.Port,
			SSLMode:        raw.Connection.SSLMode,
			AuthMethod:     authMethod,
			AzureTenantID:  raw.Connection.AzureTenantID,
			AzureClientID:  raw.Connection.AzureClientID,
			AWSRegion:      raw.Connection.AWSRegion,
			GoogleInstance: raw.Connection.GoogleInstance,
			ConnectTimeout: pgprovision.DefaultConnectTimeout,
		},
		MaintenanceDatabase: raw.Connection.MaintenanceDatabase,
	}

	applyDefaults(cfg)
	return cfg, nil
}

func resolveExtensions(raw *File) []pgprovision.Extension {
	names := raw.Extensions
	if len(names) == 0 {
		names = StringList{pgprovision.DefaultExtension}
	}

	exts := make([]pgprovision.Extension, 0, len(names))
	for _, name := range names {
		exts = append(exts, pgprovision.Extension{
			Name:       name,
			MinVersion: raw.MinVersions[name],
		})
	}
	return exts
}

func applyDefaults(cfg *pgprovision.ProvisioningConfig) {
	if cfg.Encoding == "" {
		cfg.Encoding = pgprovision.DefaultEncoding
	}
	if cfg.MaintenanceDatabase == "" {
		cfg.MaintenanceDatabase = pgprovision.DefaultMaintenanceDB
	}
	if len(cfg.SearchPath) == 0 {
		cfg.SearchPath = []string{"public"}
	}
	if cfg.Connection.Host == "" {
		cfg.Connection.Host = "localhost"
	}
	if cfg.Connection.Port == 0 {
		cfg.Connection.Port = 5432
	}
	if cfg.Connection.SSLMode == "" {
		cfg.Connection.SSLMode = "prefer"
	}
}

// ParseAuthMethod maps the config-file spelling to an AuthMethod.
func ParseAuthMethod(s string) (pgprovision.AuthMethod, error) {
	switch s {
	case "", "standard":
		return pgprovision.AuthMethodStandard, nil
	case "aws-iam", "aws":
		return pgprovision.AuthMethodAWSIAM, nil
	case "google-iam", "google":
		return pgprovision.AuthMethodGoogleIAM, nil
	case "azure-entra-id", "azure":
		return pgprovision.AuthMethodAzureEntraID, nil
	default:
		return pgprovision.AuthMethodStandard,
			fmt.Errorf("auth_method %q: %w", s, pgprovision.ErrUnsupportedAuthMethod)
	}
}
