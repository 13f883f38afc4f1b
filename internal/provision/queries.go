package provision

// Catalog queries used by the creator and installer. All identifier
// comparisons go through parameters; DDL identifiers are quoted with
// pgx.Identifier.Sanitize at the call sites.
const (
	querySchemaExists = "SELECT EXISTS(SELECT 1 FROM pg_namespace WHERE nspname = $1)"

	queryExtensionVersion = "SELECT extversion FROM pg_extension WHERE extname = $1"
)
