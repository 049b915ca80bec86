package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StatsHandler exposes resolution statistics.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Resolution GET /stats/resolution.
func (h *StatsHandler) Resolution(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	stats, err := h.service.ResolutionStats(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"stats": stats})
}
