// Package apierror provides the error taxonomy of the API and the envelope
// written to clients. Every error returned by a handler goes through StatusOf
// and Response so internal details (DB errors, stack traces) never leak.
package apierror

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindConflict
	KindDispatch
)

// Error is a classified application error. Details carries itemized messages
// (one per violated rule) for validation and conflict errors.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Details, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func Conflict(msg string, details ...string) *Error {
	return &Error{Kind: KindConflict, Message: msg, Details: details}
}

// Dispatch wraps a renderer or mail delivery failure.
func Dispatch(msg string, err error) *Error {
	return &Error{Kind: KindDispatch, Message: msg, Err: err}
}

// KindOf classifies err. gorm sentinel errors are mapped so repositories can
// return them unwrapped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	}
	return KindInternal
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindDispatch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string   `json:"detail"`
	Errors []string `json:"errors,omitempty"`
}

func New(msg string, details ...string) *APIError {
	return &APIError{Detail: msg, Errors: details}
}

// Response builds the client-facing envelope for err. Internal errors get a
// generic message.
func Response(err error) *APIError {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal {
			return New("Internal server error")
		}
		return New(e.Message, e.Details...)
	}
	switch KindOf(err) {
	case KindNotFound:
		return New("Not found")
	case KindConflict:
		return New("Conflicting record already exists")
	}
	return New("Internal server error")
}
