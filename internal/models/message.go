package models

import (
	"github.com/google/uuid"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// DisplayName returns the label shown above a chat bubble
func (r Role) DisplayName() string {
	if r == RoleModel {
		return AssistantName
	}
	return "You"
}

// Source is a web citation attached to a model message
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Message is one chat record. Model messages are mutated in place while
// their response streams in.
type Message struct {
	ID      string   `json:"id"`
	Role    Role     `json:"role"`
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// NewID returns a fresh unique message identifier
func NewID() string {
	return uuid.NewString()
}

// NewUserMessage creates a finalized user message
func NewUserMessage(text string) Message {
	return Message{ID: NewID(), Role: RoleUser, Text: text}
}

// NewPlaceholder creates a model message awaiting its response
func NewPlaceholder() Message {
	return Message{ID: NewID(), Role: RoleModel, Text: Placeholder}
}

// GreetingMessage creates the opening model message of a fresh conversation
func GreetingMessage() Message {
	return Message{ID: NewID(), Role: RoleModel, Text: Greeting}
}

// Clone returns a deep copy of m
func (m Message) Clone() Message {
	if m.Sources != nil {
		m.Sources = append([]Source(nil), m.Sources...)
	}
	return m
}

// Fragment is one incremental piece of a streamed completion
type Fragment struct {
	Text string
	// HasGrounding is true when the chunk carried grounding metadata at
	// all; Sources then holds its usable entries (possibly none).
	HasGrounding bool
	Sources      []Source
}

// UsableSources keeps only the entries that have both a URI and a title
func UsableSources(in []Source) []Source {
	out := make([]Source, 0, len(in))
	for _, s := range in {
		if s.URI != "" && s.Title != "" {
			out = append(out, s)
		}
	}
	return out
}
