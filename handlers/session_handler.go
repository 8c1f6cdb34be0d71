package handlers

import (
	"github.com/gameplannr/backend/booking"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetMySessions(c *fiber.Ctx) error {
	parentID := currentUserID(c)

	sessions, err := Store.SessionsByParent(parentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load sessions"})
	}
	return c.JSON(sessions)
}

func GetMentorSessions(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	sessions, err := Store.SessionsByMentor(mentorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load sessions"})
	}
	return c.JSON(sessions)
}

func MarkSessionComplete(c *fiber.Ctx) error {
	mentorID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := booking.MarkComplete(Store, sessionID, mentorID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Session marked as complete.",
		"session": session,
	})
}
