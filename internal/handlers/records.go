package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/records"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/storage"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// RecordsHandler serves record creation and listing.
type RecordsHandler struct {
	service *records.Service
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(service *records.Service) *RecordsHandler {
	return &RecordsHandler{service: service}
}

// CreateRequest is the JSON body for record creation.
type CreateRequest struct {
	Transcription string `json:"transcription"`
	Duration      string `json:"duration"`
	AudioFileURL  string `json:"audioFileUrl"`
}

// Create validates the transcription and persists a new meeting record.
func (h *RecordsHandler) Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ERR_INVALID_BODY", "Invalid request body", nil)
	}

	rec, err := h.service.CreateRecord(c.Context(), records.CreateInput{
		Transcription: req.Transcription,
		Duration:      req.Duration,
		AudioFileURL:  req.AudioFileURL,
	})
	if err != nil {
		var verr *records.ValidationError
		if errors.As(err, &verr) {
			// The validator's message and field errors pass through verbatim.
			return fail(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Message, verr.Errors)
		}
		log.Printf("Record creation failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_PERSISTENCE", "Failed to create record", nil)
	}

	return ok(c, rec)
}

// List returns a filtered, paginated record listing.
func (h *RecordsHandler) List(c *fiber.Ctx) error {
	filter := types.RecordFilter{
		GroupNumber: c.Query("group"),
		SpeakerName: c.Query("speaker"),
		Status:      c.Query("status"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		SortBy:      c.Query("sortBy"),
		SortDesc:    c.Query("sortDir", "desc") != "asc",
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 0),
	}

	recs, page, err := h.service.ListRecords(c.Context(), filter)
	if err != nil {
		log.Printf("Record listing failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_PERSISTENCE", "Failed to list records", nil)
	}

	return okPage(c, recs, page)
}

// Get returns a single record by id.
func (h *RecordsHandler) Get(c *fiber.Ctx) error {
	rec, err := h.service.GetRecord(c.Context(), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "ERR_NOT_FOUND", "Record not found", nil)
	}
	if err != nil {
		log.Printf("Record fetch failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_PERSISTENCE", "Failed to get record", nil)
	}

	return ok(c, rec)
}
