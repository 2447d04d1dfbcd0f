package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"notaryflow/internal/http/middleware"
	"notaryflow/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Status carries the document's authoritative status when the failure
	// exposed one, so clients can re-sync without an extra GET.
	Status string `json:"status,omitempty"`
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
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
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

// writeServiceError translates core errors into HTTP responses. Structured
// domain errors keep their code and current status; anything else is an
// opaque 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var de *service.DomainError
	if !errors.As(err, &de) {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    de.Code,
			Message: de.Message,
			Status:  string(de.CurrentStatus),
		},
	}
	return c.Status(domainStatus(de)).JSON(res)
}

// domainStatus maps a domain error to an HTTP status. Mapping is by error
// kind, with per-code exceptions where the kind is too coarse.
func domainStatus(de *service.DomainError) int {
	switch de.Code {
	case service.ErrKYCNotApproved.Code, service.ErrNotOwner.Code:
		return fiber.StatusForbidden
	case service.ErrUnknownService.Code:
		return fiber.StatusBadRequest
	}

	switch de.Kind {
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindConcurrency:
		return fiber.StatusConflict
	case service.KindData:
		return fiber.StatusUnprocessableEntity
	case service.KindPrecondition:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
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
			return writeError(c, status, "FORBIDDEN", "insufficient role")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
