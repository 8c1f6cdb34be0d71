package handlers

import (
	"errors"

	"github.com/gameplannr/backend/booking"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

// Store is the booking store every handler routes state changes through.
// Set once in main; swapped for a stub in tests.
var Store booking.Store

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

func bookingErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	case errors.Is(err, booking.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not allowed to perform this action"})
	case errors.Is(err, booking.ErrPreconditionFailed):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{"error": "This action is no longer available"})
	case errors.Is(err, booking.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
	}
}
