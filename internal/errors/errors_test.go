package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthError(t *testing.T) {
	err := NewAuthError("test auth error")

	expected := "authentication failed: test auth error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !err.Is(NewAuthError("target")) {
		t.Error("Expected error to be auth error type")
	}

	if err.Is(NewAPIError(400, "test", "other error")) {
		t.Error("Expected error not to match different type")
	}

	wrapped := fmt.Errorf("calling API: %w", err)
	if !IsAuthError(wrapped) {
		t.Error("IsAuthError should see through wrapping")
	}
	if !errors.Is(wrapped, ErrAuthFailed) {
		t.Error("errors.Is should match ErrAuthFailed sentinel")
	}
}

func TestAuthError_EmptyMessage(t *testing.T) {
	err := NewAuthError("")
	if err.Error() != "authentication failed: API key may be invalid" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test-endpoint", "test API error")

	expected := "API error [400] at test-endpoint: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "ep", "boom")
	if noStatus.Error() != "API error at ep: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}

	withBody := NewAPIErrorWithBody(500, "ep", "failed", `{"error":{}}`)
	if GetHTTPStatus(fmt.Errorf("wrap: %w", withBody)) != 500 {
		t.Error("GetHTTPStatus should unwrap to 500")
	}
	if withBody.Body != `{"error":{}}` {
		t.Errorf("Body = %q", withBody.Body)
	}
}

func TestTimeoutError(t *testing.T) {
	if got := NewTimeoutError("").Error(); got != "request timed out" {
		t.Errorf("Error() = %s", got)
	}
	if got := NewTimeoutError("slow").Error(); got != "request timed out: slow" {
		t.Errorf("Error() = %s", got)
	}
	if !IsTimeoutError(NewTimeoutError("x")) {
		t.Error("IsTimeoutError should be true")
	}
}

func TestUsageLimitError(t *testing.T) {
	err := NewUsageLimitError("test usage limit error")

	expected := "usage limit exceeded: test usage limit error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !IsRateLimitError(err) {
		t.Error("IsRateLimitError should be true")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("stream generate", "https://example", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("outer: %w", err)) {
		t.Error("IsNetworkError should be true")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("bad chunk", "candidates")

	if err.Error() != "parse error: bad chunk" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
}

func TestBlockedError(t *testing.T) {
	if got := NewBlockedError("").Error(); got != "content blocked" {
		t.Errorf("Error() = %s", got)
	}
	if !IsBlockedError(NewBlockedError("SAFETY")) {
		t.Error("IsBlockedError should be true")
	}
}

func TestInitError(t *testing.T) {
	err := NewInitError(ErrNoAPIKey)

	if !errors.Is(err, ErrNoAPIKey) {
		t.Error("InitError should unwrap to its cause")
	}
	if !errors.Is(err, ErrNoSession) {
		t.Error("InitError should match ErrNoSession")
	}
	if !IsInitError(fmt.Errorf("wrap: %w", err)) {
		t.Error("IsInitError should be true through wrapping")
	}
	if IsStreamError(err) {
		t.Error("InitError is not a StreamError")
	}
}

func TestStreamError(t *testing.T) {
	cause := NewAPIError(503, "ep", "unavailable")
	err := NewStreamError("consume", cause)

	if err.Error() != "stream failed during consume: API error [503] at ep: unavailable" {
		t.Errorf("Error() = %s", err.Error())
	}
	if GetHTTPStatus(err) != 503 {
		t.Error("StreamError should expose wrapped HTTP status")
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistenceError("write", "chatHistory", cause)

	if !IsPersistenceError(err) {
		t.Error("IsPersistenceError should be true")
	}
	if err.Error() != `persistence write "chatHistory" failed: disk full` {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty", ErrEmptyMessage, ""},
		{"missing key", NewInitError(ErrNoAPIKey), MsgInitFailure},
		{"no session", NewInitError(nil), MsgNotReady},
		{"stream", NewStreamError("start", NewAuthError("")), MsgStreamFailure},
		{"other", errors.New("anything"), MsgStreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
