// Package errors provides a structured error type carrying a machine code
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing error class; values are part of the wire format
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument // well formed input that cannot be acted on
	ErrorCodeValidation      // input that fails validation rules
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:         "unknown",
	ErrorCodePanic:           "panic",
	ErrorCodeUnavailable:     "unavailable",
	ErrorCodeTooManyRequests: "too_many_requests",
	ErrorCodeConflict:        "conflict",
	ErrorCodeUnauthorized:    "unauthorized",
	ErrorCodeForbidden:       "forbidden",
	ErrorCodeInvalidArgument: "invalid_argument",
	ErrorCodeValidation:      "validation",
	ErrorCodeJSON:            "json",
	ErrorCodeNotFound:        "not_found",
	ErrorCodeDuplicateKey:    "duplicate_key",
	ErrorCodeDB:              "db",
}

// String returns the snake case name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code_%d", uint16(c))
}

// HTTPStatusCode maps an ErrorCode to an HTTP status
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a sentinel for lookups that found nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the project error: msg for humans, code for machines,
// field for validation failures and orig for the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the JSON form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// ToWire converts e to its wire payload; the wrapped cause is never exposed
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// As returns (*Error, true) when err wraps one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf returns the code of err, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTP returns the status and wire payload for err
// foreign errors surface as a generic internal error so driver text never leaks
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	if e, ok := As(err); ok {
		return HTTPStatusCode(e.code), e.ToWire()
	}
	return http.StatusInternalServerError, Wire{Code: ErrorCodeUnknown, Message: "internal error"}
}

// WithField returns a copy of err with field set; foreign errors are wrapped as Unknown
func WithField(err error, field string) error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return &Error{code: ErrorCodeUnknown, msg: err.Error(), field: field, orig: err}
}

// New returns an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a format
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error with code and msg wrapping orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a format
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err is non nil
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// JSONErrf returns a JSON decoding error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a recovered panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Retryable reports whether err is a transient storage failure worth retrying
func Retryable(err error) bool { return IsRetryable(err) || IsRetryableCH(err) }
