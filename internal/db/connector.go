package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spatialops/pgprovision/internal/retry"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// Pool sizing for provisioning runs. Provisioning is sequential DDL, so
// the pool stays tiny; it exists for pgx's connection lifecycle handling,
// not for parallelism.
const (
	defaultMaxConns        = 2
	defaultMinConns        = 1
	defaultMaxConnIdleTime = 5 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, forcedSearchPath string) {
	poolConfig.MaxConns = defaultMaxConns
	poolConfig.MinConns = defaultMinConns
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	if forcedSearchPath != "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = forcedSearchPath
	}
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		fmt.Println(notice.Message)
	}
}

// StandardConnector implements pgprovision.Connector for username/password
// authentication, retrying transient failures.
type StandardConnector struct {
	config        *pgprovision.ConnectionConfig
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a StandardConnector with default retry
// behavior: DefaultRetryMaxAttempts attempts, exponential backoff from
// DefaultRetryInitialDelay up to DefaultRetryMaxDelay.
func NewStandardConnector(config *pgprovision.ConnectionConfig) *StandardConnector {
	strategy := retry.NewExponentialBackoff(pgprovision.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgprovision.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgprovision.DefaultRetryMaxDelay),
	)

	return &StandardConnector{
		config:        config,
		retryExecutor: retry.NewExecutor(retry.NewTransientClassifier(), strategy, nil),
	}
}

// Connect establishes a connection pool, verifying it with a ping.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig, c.config.ForcedSearchPath)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return pool, nil
}

// NewConnector creates the appropriate Connector for the config's
// AuthMethod.
func NewConnector(config *pgprovision.ConnectionConfig) (pgprovision.Connector, error) {
	switch config.AuthMethod {
	case pgprovision.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case pgprovision.AuthMethodAWSIAM:
		return newAWSConnector(config)
	case pgprovision.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case pgprovision.AuthMethodAzureEntraID:
		return newAzureConnector(config)
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, pgprovision.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError maps raw driver errors onto ErrConnectionFailed with
// actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s (is PostgreSQL running? check: pg_isready -h %s -p %d): %w: %v`,
			addr, host, port, pgprovision.ErrConnectionFailed, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host %q: %w: %v`,
			host, pgprovision.ErrConnectionFailed, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database %q (check $PGPASSWORD or the superuser credentials in the config): %w: %v`,
			database, pgprovision.ErrConnectionFailed, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database %q does not exist on %s: %w: %v`,
			database, addr, pgprovision.ErrConnectionFailed, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s: %w: %v`,
			addr, pgprovision.ErrConnectionFailed, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS negotiation with %s failed (check --sslmode): %w: %v`,
			addr, pgprovision.ErrConnectionFailed, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w: %v", addr, pgprovision.ErrConnectionFailed, err)
	}
}

// newAWSConnector creates a token-based connector with the AWS RDS IAM
// token provider.
func newAWSConnector(config *pgprovision.ConnectionConfig) (pgprovision.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM"), nil
}

// newGoogleConnector creates a connector for Cloud SQL IAM authentication.
func newGoogleConnector(config *pgprovision.ConnectionConfig) (pgprovision.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires an instance connection name (project:region:instance): %w",
			pgprovision.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username: %w", pgprovision.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance), nil
}

// newAzureConnector creates a token-based connector for Azure Entra ID.
// With explicit tenant/client/secret a service principal is used; otherwise
// the default credential chain.
func newAzureConnector(config *pgprovision.ConnectionConfig) (pgprovision.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure"), nil
}
