// Package errors defines the coded errors shared by the generator, the
// storage backends, the CLI and the HTTP API.
//
// Every failure that crosses a package boundary carries a [Code]. The code
// decides how the failure surfaces: its [Kind] picks the HTTP status and the
// CLI prints the message without the code prefix.
//
//	if w <= 0 {
//		return errors.New(errors.ErrCodeInvalidConfiguration, "width must be positive, got %d", w)
//	}
//	...
//	if errors.IsNotFound(err) {
//		// 404
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidFormat        Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle         Code = "INVALID_STYLE"
	ErrCodeInvalidPath          Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeMapNotFound  Code = "MAP_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who is at fault.
type Kind int

const (
	KindInternal    Kind = iota // bug or backend failure
	KindInvalid                 // caller supplied bad input
	KindNotFound                // the named resource does not exist
	KindUnsupported             // the build or deployment lacks the feature
)

var kinds = map[Code]Kind{
	ErrCodeInvalidConfiguration: KindInvalid,
	ErrCodeInvalidInput:         KindInvalid,
	ErrCodeInvalidFormat:        KindInvalid,
	ErrCodeInvalidStyle:         KindInvalid,
	ErrCodeInvalidPath:          KindInvalid,
	ErrCodeNotFound:             KindNotFound,
	ErrCodeMapNotFound:          KindNotFound,
	ErrCodeFileNotFound:         KindNotFound,
	ErrCodeUnsupported:          KindUnsupported,
}

// Kind returns the category of c. Unknown codes are internal.
func (c Code) Kind() Kind { return kinds[c] }

// HTTPStatus returns the response status for c.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "" if there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code, or err.Error().
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status; uncoded errors are 500.
func HTTPStatus(err error) int {
	return GetCode(err).HTTPStatus()
}

func IsInvalid(err error) bool  { return GetCode(err).Kind() == KindInvalid }
func IsNotFound(err error) bool { return GetCode(err).Kind() == KindNotFound }
