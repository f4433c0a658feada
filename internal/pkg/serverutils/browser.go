package serverutils

import (
	"fmt"

	"bidwizer-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BrowserIDHeader identifies the browser whose storage a request acts on.
const BrowserIDHeader = "X-Browser-Id"

// BrowserID reads the caller's browser id from the header, or from ?browser_id= for
// clients that cannot set headers (websocket upgrades).
func BrowserID(ctx *fiber.Ctx) (string, error) {
	raw := ctx.Get(BrowserIDHeader)
	if raw == "" {
		raw = ctx.Query("browser_id")
	}
	if raw == "" {
		return "", fmt.Errorf("missing %s header: %w", BrowserIDHeader, apperr.ErrInvalidInput)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("browser id must be a uuid: %w", apperr.ErrInvalidInput)
	}
	return id.String(), nil
}
