// Package provision implements the provisioning sequence for spatially
// enabled databases: database creation on an admin connection, then
// idempotent extension installation on a target connection.
//
// The components consume the pgprovision.DBConnection capability rather
// than concrete pool types, so all of them are unit-testable without a
// server. Identifier quoting goes through pgx.Identifier.Sanitize
// throughout; configuration values never reach SQL unquoted.
package provision
