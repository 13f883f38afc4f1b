package pgprovision

import "time"

// ErrorClassifier decides whether an error is transient and worth retrying.
type ErrorClassifier interface {
	// IsTransient returns true when the operation should be retried.
	IsTransient(err error) bool
}

// BackoffStrategy computes the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt
	// (zero-indexed).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the retry budget (0 = no retries, -1 =
	// unlimited).
	MaxAttempts() int
}
