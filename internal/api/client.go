package api

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/logging"
	"github.com/diogo/evychat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultTimeout bounds one streamed request
const DefaultTimeout = 300 * time.Second

// GeminiClient holds the API credentials and transport shared by every
// chat session of the process
type GeminiClient struct {
	httpClient        HTTPDoer
	apiKey            string
	model             models.Model
	baseURL           string
	systemInstruction string
	grounding         bool
	timeout           time.Duration
	logger            *slog.Logger
	mu                sync.RWMutex
	closed            bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the default model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithGrounding enables or disables the google_search tool
func WithGrounding(enabled bool) ClientOption {
	return func(c *GeminiClient) {
		c.grounding = enabled
	}
}

// WithSystemInstruction overrides the assistant persona
func WithSystemInstruction(instruction string) ClientOption {
	return func(c *GeminiClient) {
		if strings.TrimSpace(instruction) != "" {
			c.systemInstruction = instruction
		}
	}
}

// WithBaseURL points the client at another API root
func WithBaseURL(base string) ClientOption {
	return func(c *GeminiClient) {
		c.baseURL = base
	}
}

// WithHTTPClient injects the transport. Mainly for tests.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = doer
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *GeminiClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *GeminiClient) {
		c.logger = logger
	}
}

// NewClient creates a new GeminiClient. A missing API key or transport
// failure is reported as an InitError.
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apierrors.NewInitError(apierrors.ErrNoAPIKey)
	}

	client := &GeminiClient{
		apiKey:            apiKey,
		model:             models.DefaultModel,
		baseURL:           models.EndpointBase,
		systemInstruction: models.SystemInstruction,
		grounding:         true,
		timeout:           DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.OrDiscard(client.logger).With("component", "api")

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, apierrors.NewInitError(fmt.Errorf("failed to create HTTP client: %w", err))
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close marks the client closed. Sessions refuse new requests afterwards.
func (c *GeminiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// GetModel returns the default model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *GeminiClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// GroundingEnabled reports whether new sessions request search grounding
func (c *GeminiClient) GroundingEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grounding
}

// ChatOption configures a chat session
type ChatOption func(*ChatSession)

// WithChatModel overrides the model for one session
func WithChatModel(model models.Model) ChatOption {
	return func(s *ChatSession) {
		s.model = model
	}
}

// WithHistory seeds the session with earlier turns
func WithHistory(turns []Turn) ChatOption {
	return func(s *ChatSession) {
		s.history = append([]Turn(nil), turns...)
	}
}

// StartChat creates a new chat session configured with the client's
// model, system instruction and grounding setting
func (c *GeminiClient) StartChat(opts ...ChatOption) *ChatSession {
	c.mu.RLock()
	s := &ChatSession{
		client:            c,
		model:             c.model,
		systemInstruction: c.systemInstruction,
		grounding:         c.grounding,
	}
	c.mu.RUnlock()

	for _, opt := range opts {
		opt(s)
	}
	return s
}
