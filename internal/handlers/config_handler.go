package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
)

// ConfigHandler serves the board settings clients render forms from.
type ConfigHandler struct {
	resp dto.BoardConfigResponse
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	moods := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		moods[i] = string(m)
	}
	reasons := make([]dto.ReasonOption, len(models.ReportReasons))
	for i, r := range models.ReportReasons {
		reasons[i] = dto.ReasonOption{Value: string(r), Label: r.Label()}
	}

	return &ConfigHandler{resp: dto.BoardConfigResponse{
		Moods:                 moods,
		Reasons:               reasons,
		MaxMessageLength:      models.MaxMessageLength,
		MaxDetailsLength:      models.MaxReportDetailsLength,
		SubmitIntervalSeconds: int(cfg.SubmitInterval.Seconds()),
		PostingClosesAt:       cfg.PostingClosesAt,
	}}
}

func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.JSON(h.resp)
}
