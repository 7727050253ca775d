package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/records"
)

// SyncHandler triggers a manual full-batch resync to the external sheet.
type SyncHandler struct {
	coordinator *records.Coordinator
	batchSize   int
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(coordinator *records.Coordinator, batchSize int) *SyncHandler {
	return &SyncHandler{coordinator: coordinator, batchSize: batchSize}
}

// Trigger runs one SyncPending pass and reports {synced, errors}.
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	result, err := h.coordinator.SyncPending(c.Context(), h.batchSize)
	if err != nil {
		log.Printf("Manual sync failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_SYNC", "Sync pass failed", nil)
	}

	return ok(c, result)
}
