package routes

import (
	"github.com/gameplannr/backend/handlers"
	"github.com/gameplannr/backend/middleware"
	"github.com/gameplannr/backend/websocket"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Provider callback: authenticated by its signature, not by JWT.
	api.Post("/payments/webhook", handlers.HandleStripeWebhook)

	api.Get("/payments/return", middleware.Protected(), handlers.PaymentReturn)
	api.Post("/sessions/:sessionId/checkout", middleware.Protected(), middleware.ParentRequired(), handlers.OpenCheckout)

	app.Use("/ws", websocket.UpgradeRequired)
	app.Get("/ws/payments/:sessionId", websocket.ServeStatusSocket())
}
