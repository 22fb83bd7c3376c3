package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"money_backend/internal/feature/auth/domain"
	"money_backend/internal/platform/http/response"
	"money_backend/internal/platform/logger"
)

// Metric result labels.
const (
	resultSuccess            = "success"
	resultInvalidRequest     = "invalid_request"
	resultInvalidInput       = "invalid_input"
	resultInvalidCredentials = "invalid_credentials"
	resultEmailExists        = "email_exists"
	resultError              = "error"
)

// respondBindError writes 400 with per-field messages, or "Malformed request body"
// when the payload could not be decoded at all.
func respondBindError(c *gin.Context, err error, req any) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		response.ValidationError(c, fieldErrors(ve, req))
		return
	}
	response.Error(c, http.StatusBadRequest, response.MsgMalformedBody)
}

// respondError maps domain errors to HTTP statuses. Unknown errors are logged and
// reported with a fixed message; their detail never reaches the client.
func respondError(c *gin.Context, err error) {
	var dup *domain.EmailAlreadyExistsError
	switch {
	case errors.As(err, &dup):
		response.Error(c, http.StatusConflict, "Email already exists: "+dup.Email)
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "Email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, response.MsgInvalidCredentials)
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.MsgUserNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.MsgInvalidRequest)
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
		response.Error(c, http.StatusInternalServerError, response.MsgInternal)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resultInvalidCredentials
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return resultEmailExists
	case errors.Is(err, domain.ErrInvalidInput):
		return resultInvalidInput
	default:
		return resultError
	}
}
