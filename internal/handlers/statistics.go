package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/records"
)

// StatisticsHandler serves the aggregated statistics endpoint.
type StatisticsHandler struct {
	service *records.Service
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(service *records.Service) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// Get returns daily rollups, per-group aggregates and overall totals. The
// optional group query param restricts the per-group section.
func (h *StatisticsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics(c.Context(), c.Query("group"))
	if err != nil {
		log.Printf("Statistics query failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_PERSISTENCE", "Failed to load statistics", nil)
	}

	return ok(c, stats)
}
