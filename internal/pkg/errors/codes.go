package errors

import (
	"fmt"
	"net/http"
)

// Result codes (spec §6). Every fallible datastore operation returns one
// of these as the Code field of an *AppError (nil AppError means OK).
const (
	CodeOK             = "OK"
	CodeInvalidArgs    = "INVALID_ARGS"
	CodeNotFound       = "NOT_FOUND"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodeNotOperational = "NOT_OPERATIONAL"
	CodeInvalidObject  = "INVALID_OBJECT"
	CodeOutOfRange     = "OUT_OF_RANGE"
	CodeTooLong        = "TOO_LONG"
	CodeTooShort       = "TOO_SHORT"
	CodeNoMemory       = "NO_MEMORY"
	CodeNotStarted     = "NOT_STARTED"
	CodeInterpError    = "INTERP_ERROR"
)

// Convenience constructors using the result codes above. Every one is
// Printf-style, matching the "f" suffix. HTTPStatus is populated only
// because the read-only introspection HTTP mirror reuses
// middleware.ErrorHandler, which expects an AppError-shaped response.

func ErrInvalidArgsf(format string, args ...any) *AppError {
	return New(CodeInvalidArgs, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func ErrNotFoundf(format string, args ...any) *AppError {
	return New(CodeNotFound, fmt.Sprintf(format, args...), http.StatusNotFound)
}

func ErrAlreadyExistsf(format string, args ...any) *AppError {
	return New(CodeAlreadyExists, fmt.Sprintf(format, args...), http.StatusConflict)
}

func ErrNotOperationalf(format string, args ...any) *AppError {
	return New(CodeNotOperational, fmt.Sprintf(format, args...), http.StatusConflict)
}

func ErrInvalidObjectf(format string, args ...any) *AppError {
	return New(CodeInvalidObject, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func ErrOutOfRangef(format string, args ...any) *AppError {
	return New(CodeOutOfRange, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func ErrTooLongf(format string, args ...any) *AppError {
	return New(CodeTooLong, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func ErrTooShortf(format string, args ...any) *AppError {
	return New(CodeTooShort, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

func ErrNoMemoryf(format string, args ...any) *AppError {
	return New(CodeNoMemory, fmt.Sprintf(format, args...), http.StatusInsufficientStorage)
}

func ErrNotStartedf(format string, args ...any) *AppError {
	return New(CodeNotStarted, fmt.Sprintf(format, args...), http.StatusServiceUnavailable)
}

// ErrInterpErrorf wraps a propagation failure, naming the failing child
// fullname in the message per spec §7.
func ErrInterpErrorf(childFullname, format string, args ...any) *AppError {
	err := New(CodeInterpError, fmt.Sprintf(format, args...), http.StatusInternalServerError)
	err.Child = childFullname
	return err
}

// IsCode reports whether err is an *AppError with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}
