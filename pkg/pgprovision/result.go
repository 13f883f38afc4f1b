package pgprovision

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a provisioning run ended.
type Outcome int

const (
	// OutcomeCreated means the database was newly created.
	OutcomeCreated Outcome = iota

	// OutcomeAlreadyExists means the database existed before the run.
	// Callers wanting idempotent provisioning treat this as success.
	OutcomeAlreadyExists

	// OutcomeFailed means the run did not complete.
	OutcomeFailed
)

// String returns a human-readable name for the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", o)
	}
}

// Succeeded reports whether the outcome counts as success for idempotent
// provisioning.
func (o Outcome) Succeeded() bool {
	return o == OutcomeCreated || o == OutcomeAlreadyExists
}

// Result describes a completed provisioning run.
type Result struct {
	// Outcome of the database creation phase.
	Outcome Outcome

	// RunID uniquely identifies this run. It is also appended to
	// application_name on every connection the run opens.
	RunID uuid.UUID

	// Duration is wall-clock time for the whole run.
	Duration time.Duration

	// Err is set when Outcome is OutcomeFailed.
	Err error
}
