package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
)

const clientIDKey = "client_id"

// ClientIDRequired requires a UUID-shaped X-Client-ID header and stores it
// in locals for GetClientID.
func ClientIDRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Client-ID")
		if raw == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "X-Client-ID header is required",
			})
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "X-Client-ID must be a UUID",
			})
		}
		c.Locals(clientIDKey, id.String())
		return c.Next()
	}
}

// GetClientID returns the client token stored by ClientIDRequired, or "".
func GetClientID(c *fiber.Ctx) string {
	id, _ := c.Locals(clientIDKey).(string)
	return id
}
