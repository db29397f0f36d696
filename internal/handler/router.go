package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts every endpoint on app.
func RegisterRoutes(app *fiber.App, conv Conversations, health *HealthHandler) {
	v1 := app.Group("/api/v1")
	NewChatHandler(conv).Register(v1)

	health.Register(app)
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}
