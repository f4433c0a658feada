package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"bidwizer-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", fmt.Errorf("x: %w", apperr.ErrInvalidInput), fiber.StatusBadRequest},
		{"not found", apperr.NotFound("tender", "T-1"), fiber.StatusNotFound},
		{"busy", apperr.ErrBusy, fiber.StatusConflict},
		{"invalid state", fmt.Errorf("x: %w", apperr.ErrInvalidState), fiber.StatusConflict},
		{"capacity", &apperr.CapacityError{Resource: "team seats", Limit: 4, Used: 4}, fiber.StatusConflict},
		{"validation", apperr.NewValidationError(1, "email", "is required"), fiber.StatusUnprocessableEntity},
		{"closed", apperr.ErrSessionClosed, fiber.StatusGone},
		{"fiber", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{"unknown", errors.New("disk on fire"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := MapError(tt.err)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.want, body.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestMapErrorHidesInternalDetails(t *testing.T) {
	_, body := MapError(errors.New("dial tcp 10.0.0.3:6379: refused"))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestErrorHandlerMiddlewareWritesFieldErrors(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Post("/", func(ctx *fiber.Ctx) error {
		return &apperr.ValidationError{Step: 2, Fields: map[string]string{"industry": "is required"}}
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body BaseResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, map[string]string{"industry": "is required"}, body.Errors)
}

func TestBrowserID(t *testing.T) {
	id := uuid.NewString()
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/", func(ctx *fiber.Ctx) error {
		got, err := BrowserID(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(got)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(BrowserIDHeader, id)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?browser_id="+id, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?browser_id=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Text string `json:"text" validate:"required"`
	}
	err := ValidateRequest(req{})
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Fields["text"])
	assert.NoError(t, ValidateRequest(req{Text: "hi"}))
}
