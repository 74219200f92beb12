package errors

import (
	stderrors "errors"
	"fmt"
)

// Weather error kinds organized by category for better error handling

type ErrorType string

// Request/Location Errors - the request itself cannot succeed as written
const (
	LocationNotFoundError    ErrorType = "LOCATION_NOT_FOUND"
	UnsupportedLocationError ErrorType = "UNSUPPORTED_LOCATION"
	InvalidURLError          ErrorType = "INVALID_URL"
	NoProviderError          ErrorType = "NO_PROVIDER_AVAILABLE"
)

// Upstream Errors - errors reported by or while talking to a provider
const (
	NetworkError     ErrorType = "NETWORK_ERROR"
	DecodingError    ErrorType = "DECODING_FAILED"
	APIError         ErrorType = "API_ERROR"
	NoDataError      ErrorType = "NO_DATA_AVAILABLE"
	RateLimitedError ErrorType = "RATE_LIMITED"
)

// System Errors
const (
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
	UnknownError       ErrorType = "UNKNOWN_ERROR"
)

// WeatherError is the single error type surfaced by the client. Two errors
// of the same type with the same payload compare equal via errors.Is,
// regardless of their wrapped cause.
type WeatherError struct {
	Type       ErrorType
	Message    string
	Query      string
	StatusCode int
	Cause      error
}

func (e *WeatherError) Error() string {
	msg := string(e.Type)
	if e.Query != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Query)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *WeatherError) Unwrap() error {
	return e.Cause
}

// Is matches on type and payload, ignoring the wrapped cause, so that
// classification and test assertions are kind-based rather than
// instance-based.
func (e *WeatherError) Is(target error) bool {
	var t *WeatherError
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Type == t.Type &&
		e.Message == t.Message &&
		e.Query == t.Query &&
		e.StatusCode == t.StatusCode
}

func New(errorType ErrorType, message string) *WeatherError {
	return &WeatherError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *WeatherError {
	return &WeatherError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// TypeOf extracts the weather error type, or UnknownError for foreign errors.
func TypeOf(err error) ErrorType {
	var werr *WeatherError
	if stderrors.As(err, &werr) {
		return werr.Type
	}
	return UnknownError
}

// IsRetryable reports whether a failed provider call may be attempted again.
// Rate limiting, generic API failures and transport failures are transient;
// everything else indicates the request itself is non-recoverable.
func IsRetryable(err error) bool {
	switch TypeOf(err) {
	case RateLimitedError, APIError, NetworkError:
		return true
	default:
		return false
	}
}

// Request/Location Error Constructors

func NewLocationNotFoundError(query string) *WeatherError {
	return &WeatherError{Type: LocationNotFoundError, Query: query, Message: "location not found"}
}

func NewUnsupportedLocationError(reason string) *WeatherError {
	return &WeatherError{Type: UnsupportedLocationError, Message: reason}
}

func NewInvalidURLError(value string) *WeatherError {
	return &WeatherError{Type: InvalidURLError, Query: value, Message: "invalid URL"}
}

func NewNoProviderError() *WeatherError {
	return New(NoProviderError, "no provider available for this location")
}

// Upstream Error Constructors

func NewNetworkError(cause error) *WeatherError {
	return Wrap(NetworkError, "network request failed", cause)
}

func NewDecodingError(cause error) *WeatherError {
	return Wrap(DecodingError, "failed to decode provider response", cause)
}

func NewAPIError(statusCode int, message string) *WeatherError {
	return &WeatherError{Type: APIError, StatusCode: statusCode, Message: message}
}

func NewNoDataError() *WeatherError {
	return New(NoDataError, "no data available")
}

func NewRateLimitedError() *WeatherError {
	return New(RateLimitedError, "rate limited by provider")
}

// System Error Constructors

func NewConfigurationError(message string, cause error) *WeatherError {
	return Wrap(ConfigurationError, message, cause)
}

func NewUnknownError(message string) *WeatherError {
	return New(UnknownError, message)
}
