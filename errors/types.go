package errors

import (
	"context"
	"errors"
)

// Constructors for the error codes a client library actually reports.

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(403, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func RequestTimeout(format string, args ...any) *Error {
	return New(408, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return New(429, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func BadGateway(format string, args ...any) *Error {
	return New(502, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}

const (
	// CodeAborted marks a request cancelled by the caller. 499 follows the
	// nginx convention for client-closed requests.
	CodeAborted = 499
)

// Aborted creates a cancellation-kind error wrapping cause.
func Aborted(cause error) *Error {
	return New(CodeAborted, "request aborted").WithCause(cause)
}

// IsAborted reports whether err is a cancellation-kind error: either an
// *Error with CodeAborted or anything wrapping context.Canceled /
// context.DeadlineExceeded.
func IsAborted(err error) bool {
	if err == nil {
		return false
	}

	var ae *Error
	if errors.As(err, &ae) && ae.Code == CodeAborted {
		return true
	}

	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
