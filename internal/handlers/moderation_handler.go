package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// ListReports returns report groups, most recently reported first.
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	groups, err := h.moderationService.ListReportGroups(c.UserContext(), c.Query("status", ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups, "total": len(groups)})
}

func (h *ModerationHandler) Review(c *fiber.Ctx) error {
	return h.batch(c, h.moderationService.MarkReviewed, "Reports marked as reviewed")
}

func (h *ModerationHandler) Resolve(c *fiber.Ctx) error {
	return h.batch(c, h.moderationService.Resolve, "Reports resolved")
}

func (h *ModerationHandler) batch(c *fiber.Ctx, apply func(context.Context, []string) error, done string) error {
	var req dto.ReportIDsRequest
	if err := bindBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := apply(c.UserContext(), req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": done, "count": len(req.IDs)})
}

func (h *ModerationHandler) DeleteConfession(c *fiber.Ctx) error {
	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid confession ID")
	}
	if err := h.moderationService.DeleteConfession(c.UserContext(), contentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Confession deleted"})
}
