// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse marks a response without a body.
var ErrEmptyResponse = errors.New("empty response")

// GeocodingError represents a failure of a geocoding call.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies geocoding failures.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeInvalidArgument the query lacks the fields needed to build a request.
	ErrorTypeInvalidArgument
	// ErrorTypeUnsupportedOperation the provider cannot answer this kind of query.
	ErrorTypeUnsupportedOperation
	// ErrorTypeInvalidCredentials the API rejected the client credentials.
	ErrorTypeInvalidCredentials
	// ErrorTypeQuotaExceeded the API rate limit or quota was hit.
	ErrorTypeQuotaExceeded
	// ErrorTypeInvalidServerResponse unexpected status, empty or undecodable body.
	ErrorTypeInvalidServerResponse
	// ErrorTypeNetworkError the request never produced a response.
	ErrorTypeNetworkError
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:               "unknown",
	ErrorTypeInvalidArgument:       "invalid_argument",
	ErrorTypeUnsupportedOperation:  "unsupported_operation",
	ErrorTypeInvalidCredentials:    "invalid_credentials",
	ErrorTypeQuotaExceeded:         "quota_exceeded",
	ErrorTypeInvalidServerResponse: "invalid_server_response",
	ErrorTypeNetworkError:          "network_error",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status a local HTTP surface should answer with.
func (e *GeocodingError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeInvalidArgument:
		return http.StatusBadRequest
	case ErrorTypeUnsupportedOperation:
		return http.StatusNotImplemented
	case ErrorTypeQuotaExceeded:
		return http.StatusTooManyRequests
	case ErrorTypeNetworkError:
		return http.StatusServiceUnavailable
	case ErrorTypeInvalidCredentials, ErrorTypeInvalidServerResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates a GeocodingError of the given type.
func NewError(t ErrorType, message string) *GeocodingError {
	return &GeocodingError{Type: t, Message: message}
}

// WrapError creates a GeocodingError of the given type wrapping err.
func WrapError(t ErrorType, message string, err error) *GeocodingError {
	return &GeocodingError{Type: t, Message: message, Err: err}
}

// TypeOf extracts the ErrorType from err, ErrorTypeUnknown if err is not a
// GeocodingError.
func TypeOf(err error) ErrorType {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type
	}

	return ErrorTypeUnknown
}

// IsInvalidArgument reports whether err is an invalid argument failure.
func IsInvalidArgument(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidArgument
}

// IsUnsupportedOperation reports whether err is an unsupported operation failure.
func IsUnsupportedOperation(err error) bool {
	return TypeOf(err) == ErrorTypeUnsupportedOperation
}

// IsInvalidCredentials reports whether err is an authentication failure.
func IsInvalidCredentials(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidCredentials
}

// IsQuotaExceeded reports whether err is a rate limit or quota failure.
func IsQuotaExceeded(err error) bool {
	return TypeOf(err) == ErrorTypeQuotaExceeded
}

// IsInvalidServerResponse reports whether err is an unusable server response.
func IsInvalidServerResponse(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidServerResponse
}

// ClassifyHTTPError maps a non successful HTTP status to a GeocodingError.
// The body, when present, is kept as the wrapped cause.
func ClassifyHTTPError(statusCode int, body string) *GeocodingError {
	var cause error
	if body != "" {
		cause = errors.New(body)
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden: // 401, 403
		return &GeocodingError{
			Type:    ErrorTypeInvalidCredentials,
			Message: fmt.Sprintf("invalid credentials (status %d)", statusCode),
			Err:     cause,
		}
	case http.StatusTooManyRequests: // 429
		return &GeocodingError{
			Type:    ErrorTypeQuotaExceeded,
			Message: "quota exceeded",
			Err:     cause,
		}
	default:
		return &GeocodingError{
			Type:    ErrorTypeInvalidServerResponse,
			Message: fmt.Sprintf("server returned status %d", statusCode),
			Err:     cause,
		}
	}
}
