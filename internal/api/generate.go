package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

type requestPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []requestPart `json:"parts"`
}

type requestTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateRequest struct {
	SystemInstruction *requestContent `json:"systemInstruction,omitempty"`
	Contents          []requestContent `json:"contents"`
	Tools             []requestTool    `json:"tools,omitempty"`
}

// buildPayload creates the JSON body for a streamGenerateContent request.
// history holds earlier completed turns; prompt is the new user turn.
func buildPayload(systemInstruction string, history []Turn, prompt string, grounding bool) ([]byte, error) {
	req := generateRequest{
		Contents: make([]requestContent, 0, len(history)+1),
	}

	if systemInstruction != "" {
		req.SystemInstruction = &requestContent{
			Parts: []requestPart{{Text: systemInstruction}},
		}
	}

	for _, turn := range history {
		req.Contents = append(req.Contents, requestContent{
			Role:  string(turn.Role),
			Parts: []requestPart{{Text: turn.Text}},
		})
	}
	req.Contents = append(req.Contents, requestContent{
		Role:  string(models.RoleUser),
		Parts: []requestPart{{Text: prompt}},
	})

	if grounding {
		req.Tools = []requestTool{{GoogleSearch: &struct{}{}}}
	}

	return json.Marshal(req)
}

// doStream posts the payload and returns the open SSE response body
func (c *GeminiClient) doStream(ctx context.Context, model models.Model, payload []byte) (io.ReadCloser, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	endpoint := models.StreamEndpoint(c.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderContentType, "application/json")
	req.Header.Set(HeaderAccept, "text/event-stream")
	req.Header.Set(HeaderAPIKey, c.apiKey)

	c.logger.Debug("requesting completion", "model", model.Name, "bytes", len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, "stream generate content", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("completion request failed", "status", resp.StatusCode, "model", model.Name)
		return nil, statusError(resp.StatusCode, endpoint, body)
	}

	return resp.Body, nil
}

// transportError classifies a failed round trip or body read
func transportError(ctx context.Context, operation, endpoint string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(operation)
	}
	return apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
}

// statusError maps a non-200 response to the error taxonomy
func statusError(status int, endpoint string, body []byte) error {
	msg := errorMessage(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apierrors.NewAuthError(msg)
	case status == http.StatusTooManyRequests:
		return apierrors.NewUsageLimitError(msg)
	case status == http.StatusBadRequest:
		if msg == "" {
			msg = "invalid request"
		}
		return apierrors.NewAPIErrorWithBody(status, endpoint, msg, string(body))
	default:
		if msg == "" {
			msg = "stream generate content failed"
		}
		return apierrors.NewAPIErrorWithBody(status, endpoint, msg, string(body))
	}
}

// errorMessage extracts error.message from an object or single-element array body
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		parsed = parsed.Get("0")
	}
	return parsed.Get(PathErrorMessage).String()
}

// parseChunk converts one SSE data payload into a fragment
func parseChunk(data []byte) (models.Fragment, error) {
	if !gjson.ValidBytes(data) {
		return models.Fragment{}, apierrors.NewParseError("invalid JSON in stream chunk", "")
	}
	parsed := gjson.ParseBytes(data)

	if msg := parsed.Get(PathErrorMessage); msg.Exists() {
		return models.Fragment{}, apierrors.NewAPIError(int(parsed.Get(PathErrorCode).Int()), parsed.Get(PathErrorStatus).String(), msg.String())
	}
	if reason := parsed.Get(PathBlockReason); reason.Exists() {
		return models.Fragment{}, apierrors.NewBlockedError(reason.String())
	}

	var sb strings.Builder
	for _, text := range parsed.Get(PathPartsText).Array() {
		sb.WriteString(text.String())
	}
	frag := models.Fragment{Text: sb.String()}

	if parsed.Get(PathGrounding).Exists() {
		frag.HasGrounding = true
		var sources []models.Source
		parsed.Get(PathGroundChunk).ForEach(func(_, chunk gjson.Result) bool {
			sources = append(sources, models.Source{
				URI:   chunk.Get(PathChunkURI).String(),
				Title: chunk.Get(PathChunkTitle).String(),
			})
			return true
		})
		frag.Sources = models.UsableSources(sources)
	}

	return frag, nil
}
