package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind is the stable, client-visible classification of a failure.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindForbidden         ErrorKind = "forbidden"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindConflict          ErrorKind = "conflict"
	KindSignatureMismatch ErrorKind = "signature_mismatch"
	KindExternal          ErrorKind = "external_service_error"
)

// AppError carries a kind plus a human-readable message across package
// boundaries; controllers translate it to an HTTP response at the edge.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFound(msg string) *AppError { return &AppError{Kind: KindNotFound, Message: msg} }

func Validation(msg string) *AppError { return &AppError{Kind: KindValidation, Message: msg} }

func Forbidden(msg string) *AppError { return &AppError{Kind: KindForbidden, Message: msg} }

func Unauthenticated(msg string) *AppError { return &AppError{Kind: KindUnauthenticated, Message: msg} }

func Conflict(msg string) *AppError { return &AppError{Kind: KindConflict, Message: msg} }

func SignatureMismatch(msg string) *AppError {
	return &AppError{Kind: KindSignatureMismatch, Message: msg}
}

func External(msg string) *AppError { return &AppError{Kind: KindExternal, Message: msg} }

func statusFor(kind ErrorKind) int {
	switch kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation, KindSignatureMismatch:
		return fiber.StatusBadRequest
	case KindForbidden:
		return fiber.StatusForbidden
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindConflict:
		return fiber.StatusConflict
	case KindExternal:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError maps an error to a JSON response. AppErrors keep their kind;
// anything else becomes an opaque 500 so internals never leak to the caller.
func RespondError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(statusFor(appErr.Kind)).JSON(appErr)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"kind":  "internal",
		"error": "Something went wrong",
	})
}
