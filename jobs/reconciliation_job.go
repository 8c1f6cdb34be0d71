package jobs

import (
	"log"
	"time"

	"github.com/gameplannr/backend/booking"
	"github.com/gameplannr/backend/database"
	"github.com/gameplannr/backend/models"
	"github.com/gameplannr/backend/payments"
	"github.com/gameplannr/backend/websocket"
)

const abandonedCheckoutWindow = 24 * time.Hour

// ReconcileStalePayments sweeps sessions that opened a checkout but never
// saw the webhook land, and asks Stripe directly. This is a server-side,
// authenticated poll, so it is allowed to advance status through the same
// conditional update the webhook uses. Sessions abandoned past the retry
// window are alarmed for manual reconciliation rather than silently
// dropped.
func ReconcileStalePayments() {
	log.Println("Running job: ReconcileStalePayments...")

	staleBefore := time.Now().Add(-15 * time.Minute)

	var stale []models.Session
	err := database.DB.
		Where("status = ? AND provider_transaction_id IS NOT NULL AND updated_at < ?", models.SessionAwaitingPayment, staleBefore).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error loading stale sessions: %v", err)
		return
	}
	if len(stale) == 0 {
		log.Println("No stale awaiting-payment sessions found.")
		return
	}

	store := booking.NewGormStore(database.DB)
	for _, session := range stale {
		checkout, err := payments.GetCheckoutSession(*session.ProviderTransactionID)
		if err != nil {
			log.Printf("Could not poll checkout %s for session %s: %v", *session.ProviderTransactionID, session.ID, err)
			continue
		}

		if checkout.PaymentStatus == "paid" {
			applied, status, err := booking.ConfirmPayment(store, session.ID, checkout.PaymentIntent)
			if err != nil {
				log.Printf("🔥 Failed to reconcile session %s: %v", session.ID, err)
				continue
			}
			if applied {
				log.Printf("✅ Reconciliation sweep confirmed payment for session %s", session.ID)
				websocket.NotifyPaymentStatus(session.ID, string(status))
			}
			continue
		}

		if time.Since(session.CreatedAt) > abandonedCheckoutWindow {
			log.Printf("🔥 ALERT: session %s has an unpaid checkout older than %s; needs manual reconciliation", session.ID, abandonedCheckoutWindow)
		}
	}
}
