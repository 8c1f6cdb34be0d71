package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gameplannr/backend/booking"
	config "github.com/gameplannr/backend/configs"
	"github.com/gameplannr/backend/notifications"
	"github.com/gameplannr/backend/payments"
	"github.com/gameplannr/backend/services"
	"github.com/gameplannr/backend/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentIntent string            `json:"payment_intent"`
			PaymentStatus string            `json:"payment_status"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// HandleStripeWebhook is the authoritative payment entry point. Response
// codes drive the provider's retry machinery: 400 only for a failed
// signature, 200 for anything processed or safely ignorable, 5xx for
// transient conditions Stripe should redeliver.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	if err := payments.VerifyWebhookSignature(payload, signature, config.Config("STRIPE_WEBHOOK_SECRET"), time.Now()); err != nil {
		log.Printf("⚠️ Webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil || event.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	processed, err := Store.HasProcessedEvent(event.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check event ledger"})
	}
	if processed {
		return c.JSON(fiber.Map{"message": "Webhook already processed"})
	}

	if event.Type != "checkout.session.completed" {
		return c.JSON(fiber.Map{"received": true})
	}

	rawSessionID, ok := event.Data.Object.Metadata["session_id"]
	if !ok || rawSessionID == "" {
		// Acknowledge so Stripe stops retrying, but this payment cannot be
		// matched to a booking: surface it for manual reconciliation.
		log.Printf("🔥 ALERT: webhook event %s carries no session_id metadata (checkout %s); needs manual reconciliation", event.ID, event.Data.Object.ID)
		return c.JSON(fiber.Map{"received": true, "warning": "unmatched payment"})
	}
	sessionID, err := uuid.Parse(rawSessionID)
	if err != nil {
		log.Printf("🔥 ALERT: webhook event %s carries malformed session_id %q; needs manual reconciliation", event.ID, rawSessionID)
		return c.JSON(fiber.Map{"received": true, "warning": "unmatched payment"})
	}

	applied, status, err := booking.ConfirmPaymentEvent(Store, event.ID, event.Type, sessionID, event.Data.Object.PaymentIntent)
	if err != nil {
		if errors.Is(err, booking.ErrEventAlreadyProcessed) {
			return c.JSON(fiber.Map{"message": "Webhook already processed"})
		}
		if errors.Is(err, booking.ErrNotFound) {
			// Checkout creation can outrun the transaction-id bind if the
			// process crashed in between. Ask Stripe to retry until the
			// session row is visible.
			log.Printf("⚠️ Webhook event %s references unknown session %s, requesting redelivery", event.ID, sessionID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Session not yet visible, retry"})
		}
		log.Printf("🔥 CRITICAL: error processing webhook event %s for session %s: %v", event.ID, sessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	if applied {
		log.Printf("✅ Payment confirmed for session %s (event %s)", sessionID, event.ID)
		websocket.NotifyPaymentStatus(sessionID, string(status))

		if session, err := Store.Session(sessionID); err == nil {
			paymentRef := event.Data.Object.PaymentIntent
			go notifications.SendPaymentConfirmedEmails(session.Parent.Email, session.Mentor.Email, session.ScheduledDate, session.ScheduledTime)
			go services.GenerateSessionReceipt(*session, paymentRef)
		}
	}

	return c.JSON(fiber.Map{"message": "Webhook processed successfully"})
}
