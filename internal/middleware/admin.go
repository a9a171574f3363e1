package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

// AdminRequired admits a request carrying the moderator credential in
// X-Admin-Token, or a session JWT with the admin role claim.
func AdminRequired(auth *services.AdminAuthService, cfg *config.Config) fiber.Handler {
	jwtCheck := JWTProtected(cfg, requireAdminClaim)

	return func(c *fiber.Ctx) error {
		if !cfg.AdminEnabled() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: services.ErrAdminDisabled.Error(),
			})
		}
		if token := c.Get("X-Admin-Token"); token != "" {
			if auth.CheckToken(token) {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		return jwtCheck(c)
	}
}

func requireAdminClaim(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid claims",
		})
	}

	if role, _ := claims["role"].(string); role == services.AdminRole {
		return c.Next()
	}

	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: "Admin access required",
	})
}
