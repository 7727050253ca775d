package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// Every response carries the same envelope: {success, data, pagination?,
// meta:{timestamp, requestId}} and on failure {success:false, error:{...}}.

func meta(c *fiber.Ctx) fiber.Map {
	requestID, _ := c.Locals("requestid").(string)
	return fiber.Map{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": requestID,
	}
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta":    meta(c),
	})
}

func okPage(c *fiber.Ctx, data interface{}, page types.Pagination) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": page,
		"meta":       meta(c),
	})
}

func fail(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	errBody := fiber.Map{
		"code":    code,
		"message": message,
	}
	if details != nil {
		errBody["details"] = details
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   errBody,
		"meta":    meta(c),
	})
}
