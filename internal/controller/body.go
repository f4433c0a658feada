package controller

import (
	"fmt"

	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes and validates a JSON request body.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrInvalidInput)
	}
	return serverutils.ValidateRequest(req)
}
