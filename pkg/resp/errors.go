package resp

import (
	"errors"
	"strings"
)

// Parse errors. Every error returned by Parse, ParsePrefix and Decoder that
// is not a transport error wraps exactly one of these.
var (
	ErrUnknownType   = errors.New("resp: unknown type marker")
	ErrMalformed     = errors.New("resp: malformed value")
	ErrTruncated     = errors.New("resp: truncated value")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// IsParseError reports whether err is a decode failure, as opposed to a
// transport error or an error value sent by the server.
func IsParseError(err error) bool {
	return errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrLimitExceeded)
}

// ServerError is an error value (simple or bulk) returned by the server.
// It is a successfully parsed reply that the caller must treat as a failure.
type ServerError struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return e.Message
}

// Prefix returns the leading error code by convention, e.g. "ERR" or
// "WRONGTYPE". It is empty when the message has no upper-case prefix.
func (e *ServerError) Prefix() string {
	code, _, _ := strings.Cut(e.Message, " ")
	if code == "" || strings.ToUpper(code) != code {
		return ""
	}
	return code
}

// Value returns the error as a wire value.
func (e *ServerError) Value() Value {
	if e.Kind == KindBulkError {
		return BulkError(e.Message)
	}
	return SimpleError(e.Message)
}
