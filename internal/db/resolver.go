package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// Flags carries connection parameters from the CLI, following PostgreSQL
// flag conventions (-h, -p, -U).
//
// Password is deliberately not a flag: use $PGPASSWORD, a connection
// string, or the interactive prompt.
type Flags struct {
	Connection string // full connection string; overrides everything else
	Host       string
	Port       int
	Username   string
	SSLMode    string
}

// HasGranular reports whether any individual connection flag was set.
func (f *Flags) HasGranular() bool {
	return f != nil && (f.Host != "" || f.Port != 0 || f.Username != "" || f.SSLMode != "")
}

// EnvVars are the PostgreSQL-standard and cloud SDK environment variables
// consulted during resolution.
// See https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGSSLMode  string

	// DatabaseURL is the full connection string convention ($DATABASE_URL).
	DatabaseURL string

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
	AWSRegion         string
}

// LoadFromEnvironment reads the supported environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHost:            os.Getenv("PGHOST"),
		PGPort:            os.Getenv("PGPORT"),
		PGUser:            os.Getenv("PGUSER"),
		PGPassword:        os.Getenv("PGPASSWORD"),
		PGSSLMode:         os.Getenv("PGSSLMODE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
		AWSRegion:         os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams merges connection parameters with standard
// precedence: connection string flag > granular flags > environment >
// config file > defaults. base is the config-file connection (may be nil).
func ResolveConnectionParams(flags *Flags, env *EnvVars, base *pgprovision.ConnectionConfig) (*pgprovision.ConnectionConfig, error) {
	connString := ""
	if flags != nil {
		connString = flags.Connection
	}
	if connString == "" && !flags.HasGranular() {
		connString = env.DatabaseURL
	}

	var config *pgprovision.ConnectionConfig
	if connString != "" {
		parsed, err := ParseConnectionString(connString)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pgprovision.ErrInvalidConfig, err)
		}
		config = parsed
		// Auth method and cloud parameters never appear in a connection
		// string; carry them over from the config file.
		if base != nil {
			config.AuthMethod = base.AuthMethod
			config.AzureTenantID = base.AzureTenantID
			config.AzureClientID = base.AzureClientID
			config.AWSRegion = base.AWSRegion
			config.GoogleInstance = base.GoogleInstance
		}
	} else if base != nil {
		config = base.Clone()
	} else {
		config = defaultConnectionConfig()
	}

	applyEnv(config, env, connString != "")
	applyFlags(config, flags)

	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = pgprovision.DefaultConnectTimeout
	}

	return config, nil
}

// applyEnv overlays PG* environment variables. When the connection came
// from an explicit connection string, only credentials gaps are filled.
func applyEnv(config *pgprovision.ConnectionConfig, env *EnvVars, fromConnString bool) {
	if env == nil {
		return
	}

	if !fromConnString {
		if env.PGHost != "" {
			config.Host = env.PGHost
		}
		if env.PGPort != "" {
			if port, err := strconv.Atoi(env.PGPort); err == nil {
				config.Port = port
			}
		}
		if env.PGUser != "" {
			config.Username = env.PGUser
		}
		if env.PGSSLMode != "" {
			config.SSLMode = env.PGSSLMode
		}
	}

	if config.Password == "" {
		config.Password = env.PGPassword
	}

	if env.AzureTenantID != "" && config.AzureTenantID == "" {
		config.AzureTenantID = env.AzureTenantID
	}
	if env.AzureClientID != "" && config.AzureClientID == "" {
		config.AzureClientID = env.AzureClientID
	}
	if env.AzureClientSecret != "" && config.AzureClientSecret == "" {
		config.AzureClientSecret = env.AzureClientSecret
	}
	if env.AWSRegion != "" && config.AWSRegion == "" {
		config.AWSRegion = env.AWSRegion
	}
}

func applyFlags(config *pgprovision.ConnectionConfig, flags *Flags) {
	if flags == nil {
		return
	}
	if flags.Host != "" {
		config.Host = flags.Host
	}
	if flags.Port != 0 {
		config.Port = flags.Port
	}
	if flags.Username != "" {
		config.Username = flags.Username
	}
	if flags.SSLMode != "" {
		config.SSLMode = flags.SSLMode
	}
}
