// Package errors provides custom error types for the evychat client.
package errors

import (
	"errors"
	"fmt"
)

// User-facing messages. Nothing else about a failure is ever rendered.
const (
	MsgInitFailure   = "Failed to initialize chat session. Please check your API key."
	MsgNotReady      = "Chat session is not initialized."
	MsgStreamFailure = "Sorry, something went wrong. Please try again."
)

// Sentinel errors for common cases
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrNoAPIKey        = errors.New("no API key configured")
	ErrNoSession       = errors.New("chat session is not initialized")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrClientClosed    = errors.New("client is closed")
)

// InitError reports that the chat session client could not be constructed.
// Every later send attempt short-circuits with the same category.
type InitError struct {
	Cause error
}

func (e *InitError) Error() string {
	if e.Cause == nil {
		return "chat session initialization failed"
	}
	return fmt.Sprintf("chat session initialization failed: %v", e.Cause)
}

func (e *InitError) Unwrap() error { return e.Cause }

// Is matches ErrNoSession so callers can check readiness with errors.Is
func (e *InitError) Is(target error) bool {
	if target == ErrNoSession {
		return true
	}
	_, ok := target.(*InitError)
	return ok
}

// NewInitError creates a new InitError
func NewInitError(cause error) *InitError {
	return &InitError{Cause: cause}
}

// StreamError reports a failure during one in-flight request: session
// creation, stream initiation or fragment consumption.
type StreamError struct {
	Stage string // "start" or "read"
	Cause error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream failed during %s: %v", e.Stage, e.Cause)
}

func (e *StreamError) Unwrap() error { return e.Cause }

// NewStreamError creates a new StreamError
func NewStreamError(stage string, cause error) *StreamError {
	return &StreamError{Stage: stage, Cause: cause}
}

// PersistenceError reports a serialization or storage write failure.
// It is logged and never shown to the user.
type PersistenceError struct {
	Key   string
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %q failed: %v", e.Op, e.Key, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(op, key string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Key: key, Cause: cause}
}

// AuthError represents an authentication failure
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: API key may be invalid"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// APIError represents an API request failure
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an APIError carrying the (truncated) response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	e := NewAPIError(statusCode, endpoint, message)
	e.Body = body
	return e
}

// NetworkError represents a transport failure
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s (%s): %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// NewNetworkErrorWithEndpoint creates a new NetworkError
func NewNetworkErrorWithEndpoint(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// UsageLimitError represents a quota or rate limit error
type UsageLimitError struct {
	Message string
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(message string) *UsageLimitError {
	return &UsageLimitError{Message: message}
}

// BlockedError represents a prompt or response blocked by safety filters
type BlockedError struct {
	Message string
}

func (e *BlockedError) Error() string {
	if e.Message == "" {
		return "content blocked"
	}
	return fmt.Sprintf("content blocked: %s", e.Message)
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(message string) *BlockedError {
	return &BlockedError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsInitError reports whether err is an initialization failure
func IsInitError(err error) bool {
	var e *InitError
	return errors.As(err, &e)
}

// IsStreamError reports whether err is a per-request stream failure
func IsStreamError(err error) bool {
	var e *StreamError
	return errors.As(err, &e)
}

// IsPersistenceError reports whether err is a storage failure
func IsPersistenceError(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsRateLimitError reports whether err is a usage limit failure
func IsRateLimitError(err error) bool {
	var e *UsageLimitError
	return errors.As(err, &e)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}

// IsBlockedError reports whether err is a safety block
func IsBlockedError(err error) bool {
	var e *BlockedError
	return errors.As(err, &e)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// UserMessage maps any error to the short, non-technical text shown in the UI.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage):
		return ""
	case IsInitError(err):
		var ie *InitError
		errors.As(err, &ie)
		if ie.Cause == nil {
			return MsgNotReady
		}
		return MsgInitFailure
	default:
		return MsgStreamFailure
	}
}
