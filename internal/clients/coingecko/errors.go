package coingecko

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed request.
type ErrorKind string

const (
	KindBadRequest   ErrorKind = "bad_request"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindServerError  ErrorKind = "server_error"
	KindNetwork      ErrorKind = "network_error"
	KindUnknown      ErrorKind = "unknown"
)

var kindMessages = map[ErrorKind]string{
	KindBadRequest:   "Invalid request. Please check your input.",
	KindUnauthorized: "Unauthorized. Please check your API key.",
	KindForbidden:    "Access forbidden.",
	KindNotFound:     "Resource not found.",
	KindRateLimited:  "Too many requests. Please try again later.",
	KindServerError:  "Server error. Please try again later.",
	KindNetwork:      "Network error. Please check your connection.",
	KindUnknown:      "An error occurred. Please try again.",
}

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return kindMessages[KindUnknown]
}

// TransportError is the only error type returned by Client methods.
type TransportError struct {
	Kind       ErrorKind
	StatusCode int // 0 when no response was received
	Endpoint   string
	Err        error // underlying cause, for logging
}

// Error returns the single human-readable message for the kind.
func (e *TransportError) Error() string {
	return e.Kind.Message()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail includes the endpoint and cause for logs.
func (e *TransportError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s (status %d): %v", e.Kind, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s (status %d)", e.Kind, e.Endpoint, e.StatusCode)
}

// KindForStatus maps an HTTP status to an error kind.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindServerError
	}
	return KindUnknown
}

// IsKind reports whether err is a TransportError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == kind
}
