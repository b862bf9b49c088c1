// Package api provides the Gemini API streaming chat client.
package api

// GJSON paths for extracting values from streamGenerateContent chunks.
const (
	// Candidate content
	PathPartsText   = "candidates.0.content.parts.#.text"
	PathFinish      = "candidates.0.finishReason"
	PathGrounding   = "candidates.0.groundingMetadata"
	PathGroundChunk = "candidates.0.groundingMetadata.groundingChunks"

	// Grounding chunk paths (relative to a chunk object)
	PathChunkURI   = "web.uri"
	PathChunkTitle = "web.title"

	// Failure payloads
	PathBlockReason  = "promptFeedback.blockReason"
	PathErrorMessage = "error.message"
	PathErrorCode    = "error.code"
	PathErrorStatus  = "error.status"
)

// SSE framing
const (
	sseDataPrefix = "data:"
	sseDone       = "[DONE]"
)

// Request headers
const (
	HeaderAPIKey      = "x-goog-api-key"
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
)
