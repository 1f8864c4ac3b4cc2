package scrapeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParam is matched by errors returned from QueryBuilder.Get for unset parameters.
	ErrMissingParam = errors.New("missing key")
	// ErrInvalidHeaders is matched by errors returned when a header cannot be sent on the wire.
	ErrInvalidHeaders = errors.New("invalid headers")
	// ErrUnsupportedMethod is returned by Client.Do for verbs other than GET, POST and PUT.
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// MissingParamError reports a read of a parameter that was never set.
type MissingParamError struct {
	Param Param
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingParam, string(e.Param))
}

func (e *MissingParamError) Is(target error) bool { return target == ErrMissingParam }

// InvalidHeadersError reports a header name or value that is not allowed on the wire.
type InvalidHeadersError struct {
	Name   string
	Reason string
}

func (e *InvalidHeadersError) Error() string {
	return fmt.Sprintf("%s: %q %s", ErrInvalidHeaders, e.Name, e.Reason)
}

func (e *InvalidHeadersError) Is(target error) bool { return target == ErrInvalidHeaders }

// RequestError wraps a transport failure. The wrapped error is the transport's, unchanged.
type RequestError struct {
	Method string
	Err    error

	msg string
}

func (e *RequestError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("%s request: %v", e.Method, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
