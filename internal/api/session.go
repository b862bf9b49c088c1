package api

import (
	"context"
	"strings"
	"sync"

	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/models"
)

// Turn is one completed exchange entry sent back as conversation context
type Turn struct {
	Role models.Role
	Text string
}

// ChatSessionInterface is what the assembler needs from a chat session
type ChatSessionInterface interface {
	SendMessageStream(ctx context.Context, prompt string) (FragmentStream, error)
}

// FragmentStream yields response fragments in order. Next returns io.EOF
// once the response is complete.
type FragmentStream interface {
	Next() (models.Fragment, error)
	Close() error
}

// ChatSession maintains conversation context across messages
type ChatSession struct {
	client            *GeminiClient
	mu                sync.RWMutex // Protects model, history
	model             models.Model
	systemInstruction string
	grounding         bool
	history           []Turn
}

var _ ChatSessionInterface = (*ChatSession)(nil)

// SendMessageStream starts a streamed completion for prompt. The prompt
// and the assembled reply join the session history only once the stream
// has been fully consumed.
func (s *ChatSession) SendMessageStream(ctx context.Context, prompt string) (FragmentStream, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	s.mu.RLock()
	model := s.model
	history := append([]Turn(nil), s.history...)
	s.mu.RUnlock()

	payload, err := buildPayload(s.systemInstruction, history, prompt, s.grounding)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.client.timeout)
	body, err := s.client.doStream(ctx, model, payload)
	if err != nil {
		cancel()
		return nil, err
	}

	st := newStream(ctx, cancel, body, models.StreamEndpoint(s.client.baseURL, model))
	st.onComplete = func(reply string) {
		s.appendTurns(Turn{Role: models.RoleUser, Text: prompt}, Turn{Role: models.RoleModel, Text: reply})
	}
	return st, nil
}

func (s *ChatSession) appendTurns(turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turns...)
}

// History returns a copy of the completed turns
func (s *ChatSession) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Turn(nil), s.history...)
}

// Reset drops all conversation context
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// GetModel returns the session's model
func (s *ChatSession) GetModel() models.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel changes the session's model
func (s *ChatSession) SetModel(model models.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// Grounding reports whether the session requests search grounding
func (s *ChatSession) Grounding() bool {
	return s.grounding
}

// TurnsFromMessages converts a stored conversation into session context.
// Only user messages directly answered by a completed model reply are
// kept, so the greeting, placeholders and failed exchanges are dropped.
func TurnsFromMessages(msgs []models.Message) []Turn {
	var turns []Turn
	for i := 0; i+1 < len(msgs); i++ {
		user, reply := msgs[i], msgs[i+1]
		if user.Role != models.RoleUser || reply.Role != models.RoleModel || !completedReply(reply.Text) {
			continue
		}
		turns = append(turns,
			Turn{Role: models.RoleUser, Text: user.Text},
			Turn{Role: models.RoleModel, Text: reply.Text},
		)
		i++
	}
	return turns
}

func completedReply(text string) bool {
	return text != "" && text != models.Placeholder && text != apierrors.MsgStreamFailure
}
