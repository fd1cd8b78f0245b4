package entity

import (
	"errors"
	"net/http"
)

// ErrorKind is the closed set of failure categories used for propagation
// and display.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "InvalidRequest"
	KindNotFound       ErrorKind = "NotFound"
	KindConflict       ErrorKind = "Conflict"
	KindServerError    ErrorKind = "ServerError"
	KindNetworkError   ErrorKind = "NetworkError"
	KindUnknownError   ErrorKind = "UnknownError"
	KindValidation     ErrorKind = "ValidationError"
)

// KindForStatus maps a CRM API response status to its kind.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindInvalidRequest
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusInternalServerError:
		return KindServerError
	default:
		return KindUnknownError
	}
}

// Error is a classified CRM API failure. Status is 0 when no response
// was received.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Data    map[string]any
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) ErrorKind() ErrorKind {
	return e.Kind
}

type kinded interface {
	ErrorKind() ErrorKind
}

// KindOf classifies err. Unclassified errors are KindUnknownError; nil
// yields "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknownError
}

// MessageOf returns the user-facing message carried by a classified error,
// or fallback for anything else.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	var k kinded
	if errors.As(err, &k) {
		return err.Error()
	}
	return fallback
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
