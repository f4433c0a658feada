// FILE: internal/pkg/serverutils/error_middleware.go
package serverutils

import (
	"errors"

	"bidwizer-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, body := MapError(err)
		return ctx.Status(code).JSON(body)
	}
}

// MapError picks the HTTP status for an error from the apperr taxonomy.
func MapError(err error) (int, BaseResponse) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		res := ErrorResponse(fiber.StatusUnprocessableEntity, "Validation failed")
		res.Errors = ve.Fields
		return fiber.StatusUnprocessableEntity, res
	}

	var ce *apperr.CapacityError
	if errors.As(err, &ce) {
		res := ErrorResponse(fiber.StatusConflict, ce.Error())
		res.Data = ce
		return fiber.StatusConflict, res
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse(fe.Code, fe.Message)
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		code = fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrBusy),
		errors.Is(err, apperr.ErrInvalidState),
		errors.Is(err, apperr.ErrCapacityExceeded):
		code = fiber.StatusConflict
	case errors.Is(err, apperr.ErrSessionClosed):
		code = fiber.StatusGone
	}

	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "Internal server error"
	}
	return code, ErrorResponse(code, msg)
}
