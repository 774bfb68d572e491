package tpsclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication or authorization failure
	ErrTypeAuth
	// ErrTypeHTTP indicates a non-success status returned by the server
	ErrTypeHTTP
	// ErrTypeNotFound indicates the entry does not exist
	ErrTypeNotFound
	// ErrTypeConflict indicates the server rejected a transition for the entry's current status
	ErrTypeConflict
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeConflict:
		return "Conflict"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError is returned by every Client operation.
//
// For server-side failures Code and Message carry the values from the TPS error
// body ({"Code": 409, "Message": "..."}); Code falls back to the HTTP status
// when the body has none.
type APIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Err       error
	Retryable bool
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s %d: %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// errorBody is the JSON error document returned by the TPS REST API
type errorBody struct {
	Code      int    `json:"Code"`
	Message   string `json:"Message"`
	ClassName string `json:"ClassName,omitempty"`
}

// classifyNetworkError maps transport errors onto error types
func classifyNetworkError(message string, err error) *APIError {
	if os.IsTimeout(err) {
		return &APIError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{Type: ErrTypeDNS, Message: message, Err: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &APIError{Type: ErrTypeConnectionRefused, Message: message, Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		if inner := classifyNetworkError(message, urlErr.Err); inner.Type != ErrTypeNetwork {
			inner.Err = err
			return inner
		}
	}

	return &APIError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *APIError {
	return classifyNetworkError(message, err)
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Err: err}
}

// NewHTTPError creates an error from a non-success response. body may be nil.
func NewHTTPError(statusCode int, body []byte) *APIError {
	e := &APIError{
		Type:      ErrTypeHTTP,
		Code:      statusCode,
		Message:   http.StatusText(statusCode),
		Retryable: statusCode >= 500,
	}

	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil && (eb.Code != 0 || eb.Message != "") {
		if eb.Code != 0 {
			e.Code = eb.Code
		}
		if eb.Message != "" {
			e.Message = eb.Message
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		e.Message = text
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Type = ErrTypeAuth
	case http.StatusNotFound:
		e.Type = ErrTypeNotFound
	case http.StatusConflict, http.StatusBadRequest:
		e.Type = ErrTypeConflict
	}
	return e
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a transport failure (including timeout, refused, DNS)
func IsNetworkError(err error) bool {
	if e, ok := asAPIError(err); ok {
		return e.Type == ErrTypeNetwork ||
			e.Type == ErrTypeTimeout ||
			e.Type == ErrTypeConnectionRefused ||
			e.Type == ErrTypeDNS
	}
	return false
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Type == ErrTypeAuth
}

// IsNotFound checks if the entry does not exist
func IsNotFound(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Type == ErrTypeNotFound
}

// IsConflict checks if the server rejected the request for the entry's state
func IsConflict(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Type == ErrTypeConflict
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Type == ErrTypeParse
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Retryable
}

// Details returns the code and message to show in an error dialog. Errors that
// did not come from the server report code 0 and their error text.
func Details(err error) (int, string) {
	if e, ok := asAPIError(err); ok {
		if e.Code != 0 {
			return e.Code, e.Message
		}
		return 0, GetShortErrorMessage(e)
	}
	return 0, err.Error()
}

// ErrorTitle returns the heading for an error dialog: "HTTP Error <code>" for
// server failures, the error category otherwise.
func ErrorTitle(err error) string {
	e, ok := asAPIError(err)
	if !ok {
		return "Error"
	}
	if e.Code != 0 {
		return fmt.Sprintf("HTTP Error %d", e.Code)
	}
	return e.Type.String()
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	e, ok := asAPIError(err)
	if !ok {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - is TPS running?"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeNotFound:
		return "Entry not found"
	case ErrTypeParse:
		return "Failed to parse server response"
	default:
		return e.Message
	}
}

// GetTroubleshootingHints returns follow-up suggestions for an error
func GetTroubleshootingHints(err error) []string {
	e, ok := asAPIError(err)
	if !ok {
		return nil
	}

	switch e.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork:
		return []string{
			"Check that the TPS subsystem is running",
			"Verify the server URL and port (default https port is 8443)",
			"Try increasing --timeout",
		}
	case ErrTypeDNS:
		return []string{
			"Use the IP address instead of hostname",
			"Check your network DNS settings",
		}
	case ErrTypeAuth:
		return []string{
			"Check --username and TPSCTL_PASSWORD",
			"Verify the user is a member of TPS Administrators or TPS Agents",
		}
	case ErrTypeConflict:
		return []string{
			"Refresh the entry; its status may have changed",
			"Only disabled entries can be edited or enabled",
		}
	case ErrTypeParse:
		return []string{
			"Check that the URL points at a TPS server (/tps/rest)",
		}
	default:
		return nil
	}
}
