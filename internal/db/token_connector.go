package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spatialops/pgprovision/internal/retry"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// TokenBasedConnector implements pgprovision.Connector for cloud providers
// that authenticate with short-lived tokens (AWS RDS IAM, Azure Entra ID).
// The token is used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *pgprovision.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
}

// NewTokenBasedConnector creates a connector backed by a TokenProvider.
// providerName appears in warnings (e.g. "AWS IAM", "Azure").
func NewTokenBasedConnector(config *pgprovision.ConnectionConfig, tokenProvider TokenProvider, providerName string) *TokenBasedConnector {
	strategy := retry.NewExponentialBackoff(pgprovision.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgprovision.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgprovision.DefaultRetryMaxDelay),
	)

	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: retry.NewExecutor(retry.NewTransientClassifier(), strategy, nil),
		providerName:  providerName,
	}
}

// Connect acquires a fresh token per attempt and opens a verified pool.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if time.Until(expiresOn) < 5*time.Minute {
			fmt.Fprintf(os.Stderr, "Warning: %s token expires in %v\n",
				c.providerName, time.Until(expiresOn).Round(time.Second))
		}

		configWithToken := c.config.Clone()
		configWithToken.Password = token

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(configWithToken))
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
