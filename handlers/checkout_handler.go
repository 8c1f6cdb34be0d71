package handlers

import (
	"errors"
	"log"

	"github.com/gameplannr/backend/booking"
	"github.com/gameplannr/backend/models"
	"github.com/gameplannr/backend/payments"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OpenCheckout opens a hosted-checkout transaction for a session that is
// awaiting payment. The provider's transaction id is persisted before the
// redirect URL goes back to the browser: if we crash after Stripe creates
// the transaction but before the bind lands, the webhook for it will see
// an unknown session and be retried by the provider until the row catches
// up.
func OpenCheckout(c *fiber.Ctx) error {
	parentID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := Store.Session(sessionID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	if session.ParentID != parentID {
		return bookingErrorResponse(c, booking.ErrForbidden)
	}
	if session.Status != models.SessionAwaitingPayment || session.ProviderTransactionID != nil {
		return bookingErrorResponse(c, booking.ErrPreconditionFailed)
	}

	checkout, err := payments.CreateCheckoutSession(
		session.ID.String(),
		session.Mentor.FullName,
		session.ScheduledDate,
		session.ScheduledTime,
		session.Parent.Email,
	)
	if err != nil {
		if errors.Is(err, payments.ErrProviderUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Payment provider is unavailable, please try again shortly"})
		}
		log.Printf("🔥 Stripe checkout creation failed for session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not start checkout"})
	}

	applied, err := Store.BindProviderTransaction(session.ID, checkout.ID)
	if err != nil {
		log.Printf("🔥 Failed to bind checkout %s to session %s: %v", checkout.ID, session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not record checkout"})
	}
	if !applied {
		// A concurrent checkout-open won the bind; one attempt per session.
		return bookingErrorResponse(c, booking.ErrPreconditionFailed)
	}

	return c.JSON(fiber.Map{"url": checkout.URL})
}

// PaymentReturn serves the page the browser lands on after checkout. It
// is strictly read-only: the redirect carries no provider signature, so
// it may display state but never advance it. The page polls here (or
// subscribes to the status socket) until the verified webhook has moved
// the session forward.
func PaymentReturn(c *fiber.Ctx) error {
	parentID := currentUserID(c)

	sessionID, err := uuid.Parse(c.Query("session_db_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := Store.Session(sessionID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	if session.ParentID != parentID {
		return bookingErrorResponse(c, booking.ErrForbidden)
	}

	response := fiber.Map{
		"status": session.Status,
		"paid":   booking.IsPostPayment(session.Status),
	}

	// Informational only: show Stripe's own view of the checkout while the
	// webhook is still in flight.
	if session.Status == models.SessionAwaitingPayment && session.ProviderTransactionID != nil {
		if checkout, err := payments.GetCheckoutSession(*session.ProviderTransactionID); err == nil {
			response["provider_payment_status"] = checkout.PaymentStatus
		}
	}

	return c.JSON(response)
}
