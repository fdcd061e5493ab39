// Package httperr carries the tagged errors the request pipeline speaks:
// a kind, an HTTP status, and a user-facing message. The terminal error
// middleware renders status and message only; wrapped causes stay on the
// server side of the boundary.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindUpstream   Kind = "upstream"
	KindInternal   Kind = "internal"
)

// Error is a request-fatal failure with an HTTP status attached.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest is a malformed-payload failure (aggregated validation message).
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: message}
}

// NotFound is a missing-resource failure.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Upstream wraps a failure from an external collaborator (geocoder, image
// store). The wrapped error is kept for logs, never for the response.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Internal wraps any other failure behind a generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Something went wrong!", Err: err}
}

// From returns err as an *Error, converting unknown errors to Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
