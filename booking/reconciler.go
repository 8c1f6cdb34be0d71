package booking

import (
	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
)

// ConfirmPayment advances a session out of awaiting_payment and records
// the provider's payment reference. It is safe to call concurrently and
// redundantly: the underlying write is conditional on the session still
// being awaiting_payment, so of N racing calls exactly one applies and
// the rest observe the already-advanced status as a no-op, never an
// error.
func ConfirmPayment(s Store, sessionID uuid.UUID, paymentRef string) (bool, models.SessionStatus, error) {
	applied, err := s.AdvanceSessionStatus(
		sessionID,
		[]models.SessionStatus{models.SessionAwaitingPayment},
		models.SessionPaid,
		map[string]interface{}{"provider_payment_reference": paymentRef},
	)
	if err != nil {
		return false, "", err
	}
	if applied {
		return true, models.SessionPaid, nil
	}

	session, err := s.Session(sessionID)
	if err != nil {
		return false, "", err
	}
	return false, session.Status, nil
}

// ConfirmPaymentEvent is the webhook-path variant: the provider event id
// is written to the idempotency ledger in the same transaction as the
// status change, so redelivered events are acknowledged without a second
// mutation and a crash between ledger and mutation cannot lose the
// update. Returns ErrEventAlreadyProcessed on redelivery.
func ConfirmPaymentEvent(s Store, eventID, eventType string, sessionID uuid.UUID, paymentRef string) (bool, models.SessionStatus, error) {
	return s.ApplyPaymentEvent(eventID, eventType, sessionID, paymentRef)
}
