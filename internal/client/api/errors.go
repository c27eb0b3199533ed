package api

import (
	"errors"
	"fmt"
)

// Category sentinels. Callers match them with errors.Is; the concrete
// *Error carries the backend business code and resolved message.
var (
	ErrInvalid      = errors.New("invalid request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network unreachable")
	ErrTimeout      = errors.New("request timed out")
)

// Error is a failed API operation: either a transport-level failure
// (HTTPStatus set) or a business failure signalled through the response
// envelope (Code set, HTTPStatus may be zero).
type Error struct {
	// Code is the backend business code, e.g. 40901001. Zero when the
	// response carried no envelope.
	Code int
	// Message is the resolved human-readable message, following the
	// precedence: business-code table, body message, HTTP-status default,
	// generic fallback.
	Message string
	// HTTPStatus is the transport status, zero for envelope failures on 2xx.
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("%s (http %d)", e.Message, e.HTTPStatus)
	}
	return e.Message
}

// Unwrap maps the error onto its category sentinel so callers can write
// errors.Is(err, api.ErrConflict) without inspecting codes.
func (e *Error) Unwrap() error {
	class := e.Code
	// Business codes are eight digits with the HTTP class in front:
	// 40901001 -> 409.
	if class >= 100000 {
		class /= 100000
	}
	if class == 0 {
		class = e.HTTPStatus
	}

	switch {
	case class == 400:
		return ErrInvalid
	case class == 401:
		return ErrUnauthorized
	case class == 403:
		return ErrForbidden
	case class == 404:
		return ErrNotFound
	case class == 408:
		return ErrTimeout
	case class == 409:
		return ErrConflict
	case class == 429:
		return ErrRateLimited
	case class >= 500:
		return ErrServer
	default:
		return nil
	}
}

// NewError builds an *Error with a resolved message. Used by the mock
// repository so offline mode fails exactly like the real backend.
func NewError(code int, message string, httpStatus int) *Error {
	return &Error{Code: code, Message: Resolve(code, message, httpStatus), HTTPStatus: httpStatus}
}
