package retry

import (
	"context"
	"time"

	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

// Executor runs an operation with classification-driven retries and backoff.
// Safe for concurrent use; the onRetry callback is fixed at construction.
type Executor struct {
	classifier pgprovision.ErrorClassifier
	strategy   pgprovision.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a retry executor. onRetry may be nil. Panics if
// classifier or strategy is nil; both are programming errors.
func NewExecutor(
	classifier pgprovision.ErrorClassifier,
	strategy pgprovision.BackoffStrategy,
	onRetry func(attempt int, err error, delay time.Duration),
) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
		onRetry:    onRetry,
	}
}

// Execute runs the operation, retrying transient failures until the
// strategy's attempt budget is exhausted. Returns the last error, or the
// context error if cancelled while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil {
		return nil
	}
	if !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	maxAttempts := e.strategy.MaxAttempts()
	for attempt := 0; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
