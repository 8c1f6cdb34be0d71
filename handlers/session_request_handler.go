package handlers

import (
	"log"

	"github.com/gameplannr/backend/booking"
	"github.com/gameplannr/backend/models"
	"github.com/gameplannr/backend/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateSessionRequestBody struct {
	MentorID        string `json:"mentor_id" validate:"required,uuid"`
	PreferredDate   string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime   string `json:"preferred_time" validate:"required"`
	Location        string `json:"location" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,oneof=30 60 90"`
	Notes           string `json:"notes,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
}

func CreateSessionRequest(c *fiber.Ctx) error {
	parentID := currentUserID(c)

	var req CreateSessionRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	mentorID, _ := uuid.Parse(req.MentorID)

	request := models.SessionRequest{
		ParentID:        parentID,
		MentorID:        mentorID,
		PreferredDate:   req.PreferredDate,
		PreferredTime:   req.PreferredTime,
		Location:        req.Location,
		DurationMinutes: req.DurationMinutes,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.RequestPending,
	}
	if req.Notes != "" {
		request.Notes = &req.Notes
	}

	if err := Store.CreateSessionRequest(&request); err != nil {
		log.Printf("🔥 Failed to create session request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit request"})
	}

	go func() {
		created, err := Store.SessionRequest(request.ID)
		if err != nil {
			return
		}
		notifications.SendSessionRequestEmail(created.Mentor.Email, created.Parent.FullName)
	}()

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetMySessionRequests(c *fiber.Ctx) error {
	parentID := currentUserID(c)

	requests, err := Store.SessionRequestsByParent(parentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load requests"})
	}
	return c.JSON(requests)
}

func GetMentorSessionRequests(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	requests, err := Store.SessionRequestsByMentor(mentorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load requests"})
	}
	return c.JSON(requests)
}

func AcceptSessionRequest(c *fiber.Ctx) error {
	mentorID := currentUserID(c)
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	session, err := booking.AcceptRequest(Store, requestID, mentorID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	go func() {
		accepted, err := Store.Session(session.ID)
		if err != nil {
			return
		}
		notifications.SendRequestAcceptedEmail(accepted.Parent.Email, accepted.Mentor.FullName)
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request accepted. Session created and awaiting payment.",
		"session": session,
	})
}

func DeclineSessionRequest(c *fiber.Ctx) error {
	mentorID := currentUserID(c)
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	if err := booking.DeclineRequest(Store, requestID, mentorID); err != nil {
		return bookingErrorResponse(c, err)
	}

	go func() {
		declined, err := Store.SessionRequest(requestID)
		if err != nil {
			return
		}
		notifications.SendRequestDeclinedEmail(declined.Parent.Email, declined.Mentor.FullName)
	}()

	return c.JSON(fiber.Map{"message": "Request declined."})
}
