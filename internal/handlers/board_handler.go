package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

type BoardHandler struct {
	boardService *services.BoardService
}

func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// Feed lists confessions. client_id is optional and only fills the reacted flags.
func (h *BoardHandler) Feed(c *fiber.Ctx) error {
	var mood *models.Mood
	if raw := c.Query("mood"); raw != "" {
		m := models.Mood(raw)
		mood = &m
	}

	clientID := ""
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "client_id must be a UUID")
		}
		clientID = id.String()
	}

	items, err := h.boardService.Feed(c.UserContext(), clientID, mood)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"confessions": items})
}

func (h *BoardHandler) CreateConfession(c *fiber.Ctx) error {
	var req dto.CreateConfessionRequest
	if err := bindBody(c, &req); err != nil {
		return respondError(c, err)
	}

	var mood *models.Mood
	if req.Mood != nil {
		m := models.Mood(*req.Mood)
		mood = &m
	}

	confession, err := h.boardService.Submit(c.UserContext(), middleware.GetClientID(c), req.Message, mood)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(confession)
}

func (h *BoardHandler) React(c *fiber.Ctx) error {
	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid confession ID")
	}

	result, err := h.boardService.React(c.UserContext(), middleware.GetClientID(c), contentID)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.ReactResponse{
		Added:          result.Added,
		AlreadyReacted: result.AlreadyReacted,
		Hearts:         result.Hearts,
	}
	if result.AlreadyReacted {
		resp.Message = services.ErrAlreadyReacted.Error()
	}
	return c.JSON(resp)
}

func (h *BoardHandler) Report(c *fiber.Ctx) error {
	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid confession ID")
	}

	var req dto.CreateReportRequest
	if err := bindBody(c, &req); err != nil {
		return respondError(c, err)
	}

	report, err := h.boardService.Report(c.UserContext(), contentID, models.ReportReason(req.Reason), req.Details)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
