package commands

import (
	"strings"
	"testing"

	apierrors "github.com/diogo/evychat/internal/errors"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage_APIError(t *testing.T) {
	e := apierrors.NewAPIErrorWithBody(500, "/endpoint", "failure", "detailed body")
	out := formatErrorMessage(e, "Failed")
	if !strings.Contains(out, "HTTP Status: 500") {
		t.Fatalf("expected HTTP Status in message, got: %s", out)
	}
	if !strings.Contains(out, "Failed") {
		t.Fatalf("expected context in message, got: %s", out)
	}
}

func TestFormatErrorMessage_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"init", apierrors.NewInitError(apierrors.ErrNoAPIKey)},
		{"auth", apierrors.NewAuthError("auth")},
		{"usage", apierrors.NewUsageLimitError("gemini-2.5-pro")},
		{"network", apierrors.NewNetworkErrorWithEndpoint("stream", "/endpoint", nil)},
		{"timeout", apierrors.NewTimeoutError("deadline exceeded")},
		{"blocked", apierrors.NewBlockedError("SAFETY")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(apierrors.NewStreamError("read", tt.err), "Ask")
			if !strings.Contains(out, "Hint") {
				t.Fatalf("expected hint, got: %s", out)
			}
		})
	}
}

func TestFormatErrorMessage_ChatFailuresHideCause(t *testing.T) {
	cause := apierrors.NewAPIError(500,
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash",
		"backend quota exhausted for project 1234")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"stream", apierrors.NewStreamError("start", cause), apierrors.MsgStreamFailure},
		{"init", apierrors.NewInitError(cause), apierrors.MsgInitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Error")
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q, got: %s", tt.want, out)
			}
			for _, leak := range []string{"quota exhausted", "googleapis.com", "HTTP Status", "500"} {
				if strings.Contains(out, leak) {
					t.Errorf("output exposes %q: %s", leak, out)
				}
			}
		})
	}
}
