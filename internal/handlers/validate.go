package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/grammar"
)

// ValidateHandler serves dry-run grammar validation, used by the client for
// live feedback while the user is speaking.
type ValidateHandler struct{}

// NewValidateHandler creates a new validation handler.
func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// ValidateRequest is the JSON body for dry-run validation.
type ValidateRequest struct {
	Text string `json:"text"`
}

// Check validates text without persisting anything.
func (h *ValidateHandler) Check(c *fiber.Ctx) error {
	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ERR_INVALID_BODY", "Invalid request body", nil)
	}

	return ok(c, grammar.Validate(req.Text))
}

// Stream answers each websocket text frame with a validation result, so the
// client can re-check the transcription as it grows. "END" closes the session.
func (h *ValidateHandler) Stream(c *websocket.Conn) {
	defer c.Close()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("Validation stream read error: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		text := string(message)
		if text == "END" {
			return
		}

		payload, err := json.Marshal(grammar.Validate(text))
		if err != nil {
			log.Printf("Validation stream marshal error: %v", err)
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Validation stream write error: %v", err)
			return
		}
	}
}
