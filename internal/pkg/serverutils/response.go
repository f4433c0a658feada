// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"bidwizer-be/pkg/validation"
)

type BaseResponse struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) BaseResponse {
	return BaseResponse{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse {
	return BaseResponse{
		Success: false,
		Code:    code,
		Message: message,
	}
}

var requestValidator = validation.New()

// ValidateRequest checks validate tags on a request DTO. Failures are *apperr.ValidationError.
func ValidateRequest(req interface{}) error {
	return requestValidator.Struct(req, 0)
}
