package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

type AuthHandler struct {
	authService *services.AdminAuthService
}

func NewAuthHandler(authService *services.AdminAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminSession exchanges the moderator token for a short-lived JWT.
func (h *AuthHandler) AdminSession(c *fiber.Ctx) error {
	var req dto.AdminSessionRequest
	if err := bindBody(c, &req); err != nil {
		return respondError(c, err)
	}

	token, expires, err := h.authService.Login(req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAdminToken) {
			slog.Warn("admin login rejected", "action", "admin_session", "ip", c.IP())
		}
		return respondError(c, err)
	}

	return c.JSON(dto.AdminSessionResponse{AccessToken: token, ExpiresAt: expires})
}
