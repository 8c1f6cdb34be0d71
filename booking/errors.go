package booking

import "errors"

var (
	// ErrNotFound means the referenced request, session or rating target
	// does not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrPreconditionFailed means a transition guard was violated: the
	// record is no longer in a state where this action is available.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrForbidden means the caller is not the actor of record for the
	// transition.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means a rating already exists for the session.
	ErrConflict = errors.New("already exists")

	// ErrEventAlreadyProcessed means the provider event id is already in
	// the idempotency ledger; redelivery is acknowledged without effect.
	ErrEventAlreadyProcessed = errors.New("webhook event already processed")
)
