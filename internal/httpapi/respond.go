package httpapi

import (
	"errors"
	"net/http"
	"time"

	"assistant-platform/internal/assistants"
	"assistant-platform/internal/auth"
	"assistant-platform/internal/calls"
	"assistant-platform/internal/clients"
	"assistant-platform/internal/schedules"
	"assistant-platform/internal/users"
	"assistant-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Response is the uniform success envelope. Errors use the same shape with
// status "error" and no data.
type Response struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Status:    "error",
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// failErr translates a service error into the envelope. Unclassified errors
// become an opaque 500; the cause stays in the server log only.
func failErr(c *gin.Context, err error) {
	code, message := classify(err)
	if code == http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed", "error", err)
	}
	fail(c, code, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, users.ErrEmailTaken), errors.Is(err, clients.ErrEmailTaken):
		return http.StatusConflict, "email already exists"
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, assistants.ErrNotFound),
		errors.Is(err, clients.ErrNotFound),
		errors.Is(err, schedules.ErrNotFound),
		errors.Is(err, calls.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, schedules.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, calls.ErrCallFinished):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, users.ErrInvalidArgument),
		errors.Is(err, assistants.ErrInvalidArgument),
		errors.Is(err, clients.ErrInvalidArgument),
		errors.Is(err, schedules.ErrInvalidArgument),
		errors.Is(err, calls.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case auth.IsTokenError(err):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
