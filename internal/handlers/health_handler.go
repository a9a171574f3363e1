package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

type HealthHandler struct {
	boardService *services.BoardService
}

func NewHealthHandler(boardService *services.BoardService) *HealthHandler {
	return &HealthHandler{boardService: boardService}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.boardService.Ping(c.UserContext()); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	resp := dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	}
	if status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
