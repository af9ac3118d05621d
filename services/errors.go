package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the enrollment/unlock engine. Callers branch on
// these with errors.Is; messages carry the specifics.
var (
	// ErrAlreadyEnrolled: an active or pending enrollment already exists
	// for the (learner, course) pair.
	ErrAlreadyEnrolled = errors.New("already enrolled")

	// ErrInvalidState: the operation is not permitted from the record's
	// current state. Recoverable by choosing a valid operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition: an enrollment status edge outside the
	// transition table was attempted.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotAccessible: a gating rule was violated (locked module,
	// materials outstanding). Signals an ordering bug in the caller.
	ErrNotAccessible = errors.New("not accessible")

	// ErrNotAuthorized: the caller lacks rights over the resource.
	ErrNotAuthorized = errors.New("not authorized")

	// Idempotency guards. Callers should treat these as "already done".
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrAlreadySubmitted    = errors.New("already submitted")
	ErrAlreadyIssued       = errors.New("already issued")

	// ErrQuizMisconfigured: the quiz content is broken (no questions, no
	// correct option). Not retryable without fixing the content.
	ErrQuizMisconfigured = errors.New("quiz misconfigured")

	// ErrNotFound: the referenced record does not exist or is deleted.
	ErrNotFound = errors.New("not found")
)

// invalidTransition builds an ErrInvalidTransition naming the operation and
// the attempted edge.
func invalidTransition(op, from, to string) error {
	return fmt.Errorf("%w: %s (%s -> %s)", ErrInvalidTransition, op, from, to)
}
