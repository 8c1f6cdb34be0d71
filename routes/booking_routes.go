package routes

import (
	"github.com/gameplannr/backend/handlers"
	"github.com/gameplannr/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	requests := api.Group("/session-requests", middleware.Protected())
	requests.Post("", middleware.ParentRequired(), handlers.CreateSessionRequest)
	requests.Get("/me", middleware.ParentRequired(), handlers.GetMySessionRequests)

	mentorRequests := api.Group("/mentor/session-requests", middleware.Protected(), middleware.MentorRequired())
	mentorRequests.Get("", handlers.GetMentorSessionRequests)
	mentorRequests.Post("/:requestId/accept", handlers.AcceptSessionRequest)
	mentorRequests.Post("/:requestId/decline", handlers.DeclineSessionRequest)

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/me", middleware.ParentRequired(), handlers.GetMySessions)
	sessions.Post("/:sessionId/rating", middleware.ParentRequired(), handlers.SubmitRating)

	mentorSessions := api.Group("/mentor/sessions", middleware.Protected(), middleware.MentorRequired())
	mentorSessions.Get("", handlers.GetMentorSessions)
	mentorSessions.Post("/:sessionId/complete", handlers.MarkSessionComplete)
}
