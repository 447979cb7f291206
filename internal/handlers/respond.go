// Package handlers contains HTTP request handlers for the listings API.
package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/internal/service"
	"github.com/manojtanwar99/stayvira/internal/storage"
	"github.com/manojtanwar99/stayvira/internal/validation"
)

// ErrorResponse is the body of every non-login error.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondError writes {"error": message} with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// LogAndRespondError logs err with the request context and writes a generic
// message. err never reaches the client.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	_ = c.Error(err)
	logError(c, message, err)
	RespondError(c, status, message)
}

func logError(c *gin.Context, message string, err error) {
	slog.ErrorContext(c.Request.Context(), message,
		"error", err,
		"method", c.Request.Method,
		"path", c.FullPath(),
	)
}

// respondBindError reports a request that failed to bind or validate.
func respondBindError(c *gin.Context, err error) {
	if fields := validation.Messages(err); fields != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: fields})
		return
	}
	RespondError(c, http.StatusBadRequest, "Invalid request body")
}

// respondServiceError maps service and storage errors onto status codes.
// Anything unrecognised is logged and reported as a 500 with fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrListingNotFound):
		RespondError(c, http.StatusNotFound, "Listing not found")
	case errors.Is(err, service.ErrUserNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrEmailTaken):
		RespondError(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, service.ErrSelfDelete):
		RespondError(c, http.StatusBadRequest, "You cannot delete your own account")
	case errors.Is(err, service.ErrTitleRequired):
		RespondError(c, http.StatusBadRequest, "Title is required")
	case errors.Is(err, service.ErrInvalidRole):
		RespondError(c, http.StatusBadRequest, "Role must be admin or user")
	case errors.Is(err, service.ErrMissingCredentials):
		RespondError(c, http.StatusBadRequest, "Email and password are required")
	case errors.Is(err, storage.ErrFileTooLarge):
		RespondError(c, http.StatusBadRequest, "File too large")
	case errors.Is(err, storage.ErrUnsupportedType):
		RespondError(c, http.StatusBadRequest, "Only image uploads are allowed")
	default:
		LogAndRespondError(c, http.StatusInternalServerError, err, fallback)
	}
}

// optionalFile returns the uploaded file for field, or nil when the request
// is not multipart or carries no such file.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}
