package api

import (
	"io"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	err    error
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface. Once data is exhausted it
// returns err if set, io.EOF otherwise.
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHttpClient is a mock HTTPDoer recording every request
type MockHttpClient struct {
	mu        sync.Mutex
	responses []*fhttp.Response
	Err       error
	Requests  []*fhttp.Request
	Bodies    []string
}

// Do implements HTTPDoer. Responses are served in order; the last one repeats.
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, string(b))
	}

	if m.Err != nil {
		return nil, m.Err
	}
	idx := len(m.Requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

// NewMockHttpClient creates a MockHttpClient answering with body and status
func NewMockHttpClient(body string, statusCode int) *MockHttpClient {
	return &MockHttpClient{responses: []*fhttp.Response{mockResponse(body, statusCode)}}
}

// NewSequentialMockHttpClient answers each call with the next body
func NewSequentialMockHttpClient(bodies ...string) *MockHttpClient {
	m := &MockHttpClient{}
	for _, b := range bodies {
		m.responses = append(m.responses, mockResponse(b, fhttp.StatusOK))
	}
	return m
}

// NewMockHttpClientWithError creates a MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}

func mockResponse(body string, statusCode int) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: statusCode,
		Body:       NewMockResponseBody([]byte(body)),
		Header:     make(fhttp.Header),
	}
}

// sseBody joins JSON payloads into an SSE stream
func sseBody(chunks ...string) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString("data: ")
		sb.WriteString(c)
		sb.WriteString("\r\n\r\n")
	}
	return sb.String()
}

func textChunk(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + quote(text) + `}]}}]}`
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
