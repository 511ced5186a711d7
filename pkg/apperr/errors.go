package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind int

const (
	// KindUnexpected anything that does not fit the taxonomy; keeps diagnostics
	KindUnexpected Kind = iota
	// KindNotFound referenced entity absent
	KindNotFound
	// KindInvalidInput validation failure or rejected request
	KindInvalidInput
	// KindOutOfStock requested reduction exceeds available quantity
	KindOutOfStock
	// KindUnavailable downstream unreachable or timed out
	KindUnavailable
	// KindConflict optimistic version check failed, caller may retry
	KindConflict
	// KindEventProcessing unrecognized or unprocessable event
	KindEventProcessing
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindOutOfStock:
		return "out_of_stock"
	case KindUnavailable:
		return "unavailable"
	case KindConflict:
		return "conflict"
	case KindEventProcessing:
		return "event_processing"
	default:
		return "unexpected"
	}
}

// Error application error with a kind and optional wrapped cause
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implement error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implement errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two application errors by kind
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an application error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an application error with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a kind and message
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Sentinels for errors.Is matching by kind
var (
	ErrNotFound        = New(KindNotFound, "not found")
	ErrInvalidInput    = New(KindInvalidInput, "invalid input")
	ErrOutOfStock      = New(KindOutOfStock, "out of stock")
	ErrUnavailable     = New(KindUnavailable, "unavailable")
	ErrConflict        = New(KindConflict, "version conflict")
	ErrEventProcessing = New(KindEventProcessing, "event processing failed")
)

// KindOf extracts the kind of an error, KindUnexpected for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// HTTPStatus maps an error kind to the HTTP status the facade returns
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput, KindOutOfStock:
		return http.StatusUnprocessableEntity
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
