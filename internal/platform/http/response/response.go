// Package response writes the JSON error bodies shared by every endpoint.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Fixed client-facing messages.
const (
	MsgAccessDenied       = "Access denied"
	MsgInternal           = "An unexpected error occurred"
	MsgValidationFailed   = "Validation failed"
	MsgMalformedBody      = "Malformed request body"
	MsgInvalidRequest     = "Invalid request"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserNotFound       = "User not found"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationErrorResponse lists field-level binding failures.
type ValidationErrorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
	Timestamp time.Time         `json:"timestamp"`
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, newError(status, message))
}

// AbortWithError writes an ErrorResponse and stops the handler chain.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, newError(status, message))
}

// ValidationError writes a 400 ValidationErrorResponse.
func ValidationError(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Status:    http.StatusBadRequest,
		Message:   MsgValidationFailed,
		Errors:    fieldErrors,
		Timestamp: time.Now(),
	})
}

func newError(status int, message string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}
