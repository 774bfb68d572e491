package tpsclient

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestNewNetworkError_Timeout(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "https://tps:8443/tps/rest/profiles",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}},
	}

	apiErr := NewNetworkError("GET request failed", err)
	if apiErr.Type != ErrTypeTimeout {
		t.Errorf("Type = %v, want %v", apiErr.Type, ErrTypeTimeout)
	}
	if !apiErr.Retryable {
		t.Error("timeout should be retryable")
	}
}

func TestNewNetworkError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "https://tps:8443",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
	}

	apiErr := NewNetworkError("GET request failed", err)
	if apiErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Type = %v, want %v", apiErr.Type, ErrTypeConnectionRefused)
	}
	if !errors.Is(apiErr, syscall.ECONNREFUSED) {
		t.Error("underlying error should remain in the chain")
	}
}

func TestNewNetworkError_DNS(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "https://nope.invalid",
		Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"},
	}

	apiErr := NewNetworkError("GET request failed", err)
	if apiErr.Type != ErrTypeDNS {
		t.Errorf("Type = %v, want %v", apiErr.Type, ErrTypeDNS)
	}
	if apiErr.Retryable {
		t.Error("DNS failures should not be retried")
	}
}

func TestNewHTTPError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantType  ErrorType
		wantCode  int
		wantMsg   string
		retryable bool
	}{
		{"tps error body", 500, `{"Code":500,"Message":"boom"}`, ErrTypeHTTP, 500, "boom", true},
		{"body code overrides status", 400, `{"Code":409,"Message":"busy"}`, ErrTypeConflict, 409, "busy", false},
		{"plain text body", 502, "upstream down", ErrTypeHTTP, 502, "upstream down", true},
		{"empty body", 404, "", ErrTypeNotFound, 404, "Not Found", false},
		{"unauthorized", 401, "", ErrTypeAuth, 401, "Unauthorized", false},
		{"forbidden", 403, `{"Code":403,"Message":"no agent role"}`, ErrTypeAuth, 403, "no agent role", false},
		{"conflict", 409, `{"Code":409,"Message":"Unable to enable"}`, ErrTypeConflict, 409, "Unable to enable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			e := NewHTTPError(tt.status, body)
			if e.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", e.Type, tt.wantType)
			}
			if e.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", e.Code, tt.wantCode)
			}
			if e.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMsg)
			}
			if e.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", e.Retryable, tt.retryable)
			}
		})
	}
}

func TestNewHTTPError_LongTextBodyIgnored(t *testing.T) {
	e := NewHTTPError(500, []byte(strings.Repeat("x", 600)))
	if e.Message != "Internal Server Error" {
		t.Errorf("Message = %q, want status text", e.Message)
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("enable failed: %w", NewHTTPError(404, nil))

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through wrapping")
	}
	if IsAuthError(wrapped) || IsConflict(wrapped) || IsNetworkError(wrapped) {
		t.Error("only IsNotFound should match")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestDetails(t *testing.T) {
	code, msg := Details(NewHTTPError(500, []byte(`{"Code":500,"Message":"boom"}`)))
	if code != 500 || msg != "boom" {
		t.Errorf("Details() = %d %q", code, msg)
	}

	code, msg = Details(NewNetworkError("failed", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	if code != 0 {
		t.Errorf("network error code = %d, want 0", code)
	}
	if !strings.Contains(msg, "refused") {
		t.Errorf("network error message = %q", msg)
	}

	code, msg = Details(errors.New("plain"))
	if code != 0 || msg != "plain" {
		t.Errorf("plain error = %d %q", code, msg)
	}
}

func TestGetTroubleshootingHints(t *testing.T) {
	if hints := GetTroubleshootingHints(NewHTTPError(401, nil)); len(hints) == 0 {
		t.Error("auth errors should have hints")
	}
	if hints := GetTroubleshootingHints(errors.New("plain")); hints != nil {
		t.Errorf("plain errors should have no hints, got %v", hints)
	}
}

func TestErrorTypeString(t *testing.T) {
	if got := ErrTypeConflict.String(); got != "Conflict" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorType(99).String(); got != "ErrorType(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestErrorTitle(t *testing.T) {
	if got := ErrorTitle(NewHTTPError(500, []byte(`{"Code":500,"Message":"boom"}`))); got != "HTTP Error 500" {
		t.Errorf("ErrorTitle() = %q, want HTTP Error 500", got)
	}
	if got := ErrorTitle(NewParseError("bad", errors.New("x"))); got != "Parse Error" {
		t.Errorf("ErrorTitle() = %q, want Parse Error", got)
	}
	if got := ErrorTitle(errors.New("plain")); got != "Error" {
		t.Errorf("ErrorTitle() = %q, want Error", got)
	}
}
