package pgprovision

import "context"

// Provisioner is the public contract for provisioning spatially enabled
// databases.
type Provisioner interface {
	// Provision runs the full sequence: admin connect, create database,
	// target connect, install extensions. A database that already exists
	// is not an error; the Result carries OutcomeAlreadyExists and the
	// run continues into extension installation.
	Provision(ctx context.Context, cfg *ProvisioningConfig) (*Result, error)

	// InstallExtensions connects to an existing target database and
	// installs the configured extensions idempotently.
	InstallExtensions(ctx context.Context, cfg *ProvisioningConfig) error
}
