// Package history holds the in-memory conversation and persists it as a
// flat snapshot into session-scoped storage.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/logging"
	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/storage"
)

// ChangeFunc receives a copy of the conversation after every mutation
type ChangeFunc func(messages []models.Message)

// Store is the ordered, append-only message sequence. The in-memory
// state is authoritative; every mutation writes the whole sequence to
// the KV under storage.KeyChatHistory and a failed write is only logged.
type Store struct {
	mu        sync.RWMutex
	kv        storage.KV
	logger    *slog.Logger
	messages  []models.Message
	listeners []ChangeFunc
}

// NewStore creates an empty store persisting into kv. kv may be nil,
// in which case nothing is persisted.
func NewStore(kv storage.KV, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logging.OrDiscard(logger).With("component", "history"),
	}
}

// Load replaces the in-memory sequence with the persisted snapshot. A
// missing, empty or unreadable snapshot starts a fresh conversation with
// the greeting. It returns true when a snapshot was restored.
func (s *Store) Load() bool {
	msgs, err := s.readSnapshot()
	if err != nil {
		s.logger.Warn("discarding unreadable chat history", "error", err)
	}

	restored := err == nil && len(msgs) > 0
	if !restored {
		msgs = []models.Message{models.GreetingMessage()}
	}

	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()

	s.notify()
	return restored
}

func (s *Store) readSnapshot() ([]models.Message, error) {
	if s.kv == nil {
		return nil, nil
	}

	raw, ok, err := s.kv.Get(storage.KeyChatHistory)
	if err != nil {
		return nil, apierrors.NewPersistenceError("read", storage.KeyChatHistory, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	msgs, err := Decode([]byte(raw))
	if err != nil {
		return nil, apierrors.NewPersistenceError("decode", storage.KeyChatHistory, err)
	}
	return msgs, nil
}

// Append adds messages to the tail, preserving their order
func (s *Store) Append(msgs ...models.Message) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	for _, m := range msgs {
		s.messages = append(s.messages, m.Clone())
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// UpdateByID applies mutate to exactly the message with the given id.
// The id and role cannot be changed by mutate. Returns false when no
// message matches, in which case nothing is written.
func (s *Store) UpdateByID(id string, mutate func(m *models.Message)) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	msg := s.messages[idx].Clone()
	mutate(&msg)
	msg.ID = s.messages[idx].ID
	msg.Role = s.messages[idx].Role
	s.messages[idx] = msg

	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return true
}

// SetText replaces the text of one message
func (s *Store) SetText(id, text string) bool {
	return s.UpdateByID(id, func(m *models.Message) {
		m.Text = text
	})
}

// SetTextAndSources replaces the text and the citation list of one message
func (s *Store) SetTextAndSources(id, text string, sources []models.Source) bool {
	return s.UpdateByID(id, func(m *models.Message) {
		m.Text = text
		m.Sources = append([]models.Source(nil), sources...)
	})
}

// Get returns a copy of the message with the given id
func (s *Store) Get(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Message{}, false
	}
	return s.messages[idx].Clone(), true
}

// Snapshot returns a copy of the full ordered sequence
func (s *Store) Snapshot() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.messages)
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message with the given role
func (s *Store) Last(role models.Role) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == role {
			return s.messages[i].Clone(), true
		}
	}
	return models.Message{}, false
}

// Replace swaps the whole sequence. This is the only way messages leave
// the store.
func (s *Store) Replace(msgs []models.Message) {
	s.mu.Lock()
	s.messages = cloneAll(msgs)
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// Reset starts a fresh conversation containing only the greeting
func (s *Store) Reset() {
	s.Replace([]models.Message{models.GreetingMessage()})
}

// OnChange registers fn to be called after every mutation
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append([]ChangeFunc(nil), s.listeners...)
	var snapshot []models.Message
	if len(listeners) > 0 {
		snapshot = cloneAll(s.messages)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole sequence. MUST be called with s.mu held.
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}

	data, err := Encode(s.messages)
	if err != nil {
		s.logger.Error("failed to serialize chat history",
			"error", apierrors.NewPersistenceError("encode", storage.KeyChatHistory, err))
		return
	}

	if err := s.kv.Set(storage.KeyChatHistory, string(data)); err != nil {
		s.logger.Error("failed to persist chat history",
			"error", apierrors.NewPersistenceError("write", storage.KeyChatHistory, err),
			"messages", len(s.messages))
	}
}

// Encode serializes a conversation snapshot
func Encode(msgs []models.Message) ([]byte, error) {
	if msgs == nil {
		msgs = []models.Message{}
	}
	return json.Marshal(msgs)
}

// Decode parses and validates a conversation snapshot
func Decode(data []byte) ([]models.Message, error) {
	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse chat history: %w", err)
	}

	seen := make(map[string]bool, len(msgs))
	for i, m := range msgs {
		if m.ID == "" {
			return nil, fmt.Errorf("message %d has no id", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate message id %s", m.ID)
		}
		if !m.Role.Valid() {
			return nil, fmt.Errorf("message %s has invalid role %q", m.ID, m.Role)
		}
		seen[m.ID] = true
	}
	return msgs, nil
}

func cloneAll(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
