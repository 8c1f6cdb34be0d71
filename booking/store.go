package booking

import (
	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
)

// Store is the durable record keeper for requests, sessions, ratings and
// the webhook idempotency ledger. All status writes happen through
// conditional updates: the write takes effect only if the row still holds
// the expected prior status, which is what makes concurrent transitions
// race-safe without external locking.
type Store interface {
	SessionRequest(id uuid.UUID) (*models.SessionRequest, error)
	Session(id uuid.UUID) (*models.Session, error)

	CreateSessionRequest(req *models.SessionRequest) error

	// AcceptSessionRequest flips the request from pending to accepted and
	// creates the derived session in the same transaction. It reports
	// false when the request was no longer pending.
	AcceptSessionRequest(requestID uuid.UUID, session *models.Session) (bool, error)

	// DeclineSessionRequest flips the request from pending to declined,
	// reporting false when it was no longer pending.
	DeclineSessionRequest(requestID uuid.UUID) (bool, error)

	// AdvanceSessionStatus moves the session to next, together with any
	// extra fields, iff its current status is one of expected. It reports
	// whether the write was applied.
	AdvanceSessionStatus(id uuid.UUID, expected []models.SessionStatus, next models.SessionStatus, fields map[string]interface{}) (bool, error)

	// BindProviderTransaction records the provider's checkout transaction
	// id, only while the session is awaiting payment and no id is bound
	// yet. The id is immutable once set.
	BindProviderTransaction(id uuid.UUID, txnID string) (bool, error)

	HasProcessedEvent(eventID string) (bool, error)

	// ApplyPaymentEvent records the provider event id in the idempotency
	// ledger and applies the awaiting_payment -> paid transition in one
	// transaction, so a crash between the two cannot drop the mutation on
	// replay. A duplicate event id yields ErrEventAlreadyProcessed; an
	// already-advanced session yields applied == false and the current
	// status.
	ApplyPaymentEvent(eventID, eventType string, sessionID uuid.UUID, paymentRef string) (applied bool, status models.SessionStatus, err error)

	// CreateRating inserts the rating, returning ErrConflict when the
	// session already has one.
	CreateRating(rating *models.Rating) error
	HasRating(sessionID uuid.UUID) (bool, error)

	SessionRequestsByParent(parentID uuid.UUID) ([]models.SessionRequest, error)
	SessionRequestsByMentor(mentorID uuid.UUID) ([]models.SessionRequest, error)
	SessionsByParent(parentID uuid.UUID) ([]models.Session, error)
	SessionsByMentor(mentorID uuid.UUID) ([]models.Session, error)
}
