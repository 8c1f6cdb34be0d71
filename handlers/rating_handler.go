package handlers

import (
	"github.com/gameplannr/backend/booking"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func SubmitRating(c *fiber.Ctx) error {
	parentID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var req RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}

	rating, err := booking.SubmitRating(Store, sessionID, parentID, req.Rating, comment)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}
