package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/http/middleware"
	"ssisapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID_NUMBER", "NOT_FOUND")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service-layer errors into HTTP responses.
// Validation errors keep their stable codes; duplicates and in-use conflicts
// map to 409, everything unexpected collapses to a generic 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		status := fiber.StatusBadRequest
		if strings.HasSuffix(verr.Code, "_EXISTS") ||
			strings.HasSuffix(verr.Code, "_IN_USE") ||
			verr.Code == "CREATION_ALREADY_CONFIRMED" {
			status = fiber.StatusConflict
		}
		return writeError(c, status, verr.Code, verr.Message)
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidContentType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT_TYPE", "content type not allowed for avatars")
	case errors.Is(err, service.ErrPathMismatch):
		return writeError(c, fiber.StatusBadRequest, "PATH_MISMATCH", "object path does not belong to this student")
	case errors.Is(err, service.ErrObjectMissing):
		return writeError(c, fiber.StatusConflict, "OBJECT_NOT_UPLOADED", "no uploaded object found at the claimed path")
	// Saga outcomes are checked before the storage sentinel: a creation error
	// may wrap a storage cause, and the caller needs the creation-level code.
	case errors.Is(err, service.ErrRollbackFailed):
		return writeError(c, fiber.StatusInternalServerError, "CREATION_INCONSISTENT", "student creation failed and could not be rolled back")
	case errors.Is(err, service.ErrPartialFailure):
		return writeError(c, fiber.StatusServiceUnavailable, "CREATION_FAILED", "student creation was rolled back, retry later")
	case errors.Is(err, service.ErrStorageUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "object storage unavailable, retry later")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "UNAUTHORIZED_ACCESS", "admin privileges required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
