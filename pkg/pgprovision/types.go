package pgprovision

import (
	"errors"
	"fmt"
	"time"
)

// Extension describes one server extension to install in the target database.
type Extension struct {
	// Name is the extension name as known to the server catalog
	// (e.g. "postgis", "postgis_topology").
	Name string

	// Schema optionally overrides the schema the extension is installed
	// into. Empty means: use the config-level ExtensionSchema, or the
	// server default when that is empty too. Ignored for the topology
	// extension, which always lands in the fixed "topology" schema.
	Schema string

	// MinVersion is an optional minimum acceptable extension version,
	// verified against pg_extension.extversion after installation.
	// Example: "3.3.0". Empty disables the check.
	MinVersion string
}

// RequiresTopology reports whether the extension needs the dedicated
// topology schema on the search path.
func (e Extension) RequiresTopology() bool {
	return e.Name == TopologyExtension
}

// ProvisioningConfig is the normalized provisioning request. It is produced
// once per invocation by the config resolver; nothing downstream mutates it.
type ProvisioningConfig struct {
	// DatabaseName is the database to create and provision. Required.
	DatabaseName string

	// Owner is the role that will own the database and connect to it for
	// extension installation.
	Owner string

	// OwnerPassword authenticates Owner.
	OwnerPassword string

	// Superuser is the privileged role used for server-level operations
	// (CREATE DATABASE). Defaults to Owner when empty.
	Superuser string

	// SuperuserPassword authenticates Superuser. Defaults to OwnerPassword
	// when empty.
	SuperuserPassword string

	// Encoding is the encoding for CREATE DATABASE (default UTF8).
	Encoding string

	// SearchPath is the ordered schema search path for the target
	// database. Must contain "topology" when a topology extension is
	// requested.
	SearchPath []string

	// Extensions are installed in order. Defaults to ["postgis"].
	Extensions []Extension

	// ExtensionSchema, when set, is the schema non-topology extensions are
	// installed into. Created (with a PUBLIC usage grant) if absent.
	ExtensionSchema string

	// Connection carries server location and authentication. The Database
	// field inside it is ignored; provisioning derives the maintenance and
	// target databases itself.
	Connection *ConnectionConfig

	// MaintenanceDatabase is the database used for server-level
	// operations. Defaults to "postgres".
	MaintenanceDatabase string

	// Timeout bounds the whole provisioning run. Zero means no bound
	// beyond the caller's context.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// EffectiveSuperuser returns the role used for admin operations, falling
// back to the owner when no separate superuser is configured.
func (c *ProvisioningConfig) EffectiveSuperuser() string {
	if c.Superuser != "" {
		return c.Superuser
	}
	return c.Owner
}

// EffectiveSuperuserPassword returns the password for admin operations.
// An empty SuperuserPassword falls back to the owner password even when a
// distinct superuser is named; the two roles commonly share credentials in
// single-role setups.
func (c *ProvisioningConfig) EffectiveSuperuserPassword() string {
	if c.SuperuserPassword != "" {
		return c.SuperuserPassword
	}
	return c.OwnerPassword
}

// RequiresTopology reports whether any configured extension needs the
// topology schema.
func (c *ProvisioningConfig) RequiresTopology() bool {
	for _, ext := range c.Extensions {
		if ext.RequiresTopology() {
			return true
		}
	}
	return false
}

// SearchPathHasTopology reports whether the topology schema is on the
// configured search path.
func (c *ProvisioningConfig) SearchPathHasTopology() bool {
	for _, s := range c.SearchPath {
		if s == TopologySchema {
			return true
		}
	}
	return false
}

// Validate checks the config for completeness. It returns a multi-error so
// every problem is reported at once.
func (c *ProvisioningConfig) Validate() error {
	var errs []error

	if c.DatabaseName == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("connection parameters are required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if c.RequiresTopology() && !c.SearchPathHasTopology() {
		errs = append(errs, fmt.Errorf(
			"extension %q requires schema %q on the search path (have %v): %w",
			TopologyExtension, TopologySchema, c.SearchPath, ErrSchemaSearchPath))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents resolved server connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod selects the authentication mechanism.
	AuthMethod AuthMethod

	// AppName is sent as application_name; the provisioner appends the
	// run ID so sessions are traceable in pg_stat_activity.
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// ForcedSearchPath, when non-empty, overrides search_path for the
	// session. Admin connections force "public" so unqualified catalog
	// lookups never resolve against user schemas.
	ForcedSearchPath string

	// Azure Entra ID parameters (AuthMethodAzureEntraID). With all three
	// set, service principal auth is used; otherwise the default
	// credential chain.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance) for AuthMethodGoogleIAM.
	GoogleInstance string
}

// Clone returns a deep copy so per-phase adjustments (target database,
// forced search path) never leak between connection handles.
func (c *ConnectionConfig) Clone() *ConnectionConfig {
	clone := *c
	if c.AdditionalParams != nil {
		clone.AdditionalParams = make(map[string]string, len(c.AdditionalParams))
		for k, v := range c.AdditionalParams {
			clone.AdditionalParams[k] = v
		}
	}
	return &clone
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard AuthMethod = iota // username/password
	AuthMethodAWSIAM                     // AWS RDS IAM database authentication
	AuthMethodGoogleIAM                  // Google Cloud SQL IAM
	AuthMethodAzureEntraID               // Azure Entra ID
)

// String returns a human-readable name for the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
