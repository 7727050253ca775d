package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/records"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/storage"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/transcription"
)

// UploadHandler accepts an audio recording, transcribes it and runs the
// transcription through the normal record creation path.
type UploadHandler struct {
	service     *records.Service
	transcriber transcription.Transcriber
	audioStore  *storage.AudioStore
	tempDir     string
	maxSizeMB   int
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(service *records.Service, transcriber transcription.Transcriber,
	audioStore *storage.AudioStore, tempDir string, maxSizeMB int) *UploadHandler {
	return &UploadHandler{
		service:     service,
		transcriber: transcriber,
		audioStore:  audioStore,
		tempDir:     tempDir,
		maxSizeMB:   maxSizeMB,
	}
}

// Handle processes the audio upload request.
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ERR_NO_FILE", "No file uploaded", nil)
	}

	duration := c.FormValue("duration")
	if duration == "" {
		duration = "00:00"
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return fail(c, fiber.StatusBadRequest, "ERR_FILE_TOO_LARGE",
			fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB), nil)
	}

	if !transcription.ValidateAudioFormat(file.Filename) {
		return fail(c, fiber.StatusBadRequest, "ERR_INVALID_FORMAT", "Unsupported audio format", nil)
	}

	uploadID := uuid.New().String()
	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("%s%s", uploadID, filepath.Ext(file.Filename)))
	if err := c.SaveFile(file, tempPath); err != nil {
		log.Printf("Failed to save uploaded file: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_SAVE_FAILED", "Failed to save file", nil)
	}
	defer cleanupTempFile(tempPath)

	normalizedPath, err := transcription.NormalizeAudio(c.Context(), tempPath, h.tempDir)
	if err != nil {
		log.Printf("Audio normalization failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_NORMALIZE_FAILED", "Failed to process audio", nil)
	}
	defer cleanupTempFile(normalizedPath)

	text, err := h.transcriber.Transcribe(c.Context(), normalizedPath)
	if err != nil {
		log.Printf("Transcription failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_TRANSCRIBE_FAILED", "Failed to transcribe audio", nil)
	}

	audioURL, err := h.audioStore.SaveAudio(uploadID, tempPath)
	if err != nil {
		// The record is still worth keeping without the archived audio.
		log.Printf("Audio archive failed: %v", err)
		audioURL = ""
	}

	rec, err := h.service.CreateRecord(c.Context(), records.CreateInput{
		Transcription: text,
		Duration:      duration,
		AudioFileURL:  audioURL,
	})
	if err != nil {
		var verr *records.ValidationError
		if errors.As(err, &verr) {
			return fail(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Message, verr.Errors)
		}
		log.Printf("Record creation failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "ERR_PERSISTENCE", "Failed to create record", nil)
	}

	return ok(c, rec)
}

// cleanupTempFile removes a temporary file.
func cleanupTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to cleanup temp file %s: %v", path, err)
	}
}
