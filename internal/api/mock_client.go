package api

import (
	"context"
	"io"
	"sync"

	"github.com/diogo/evychat/internal/models"
)

// MockChatSession is a scripted ChatSessionInterface for testing
type MockChatSession struct {
	// Mock return values
	Fragments []models.Fragment
	// StreamErr is returned instead of a stream
	StreamErr error
	// NextErr is returned by Next after all Fragments were consumed
	NextErr error

	// Call counters/recorders
	mu          sync.Mutex
	Calls       int
	LastPrompt  string
	Prompts     []string
	CloseCalled int
}

// Ensure MockChatSession implements ChatSessionInterface
var _ ChatSessionInterface = (*MockChatSession)(nil)

func (m *MockChatSession) SendMessageStream(ctx context.Context, prompt string) (FragmentStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastPrompt = prompt
	m.Prompts = append(m.Prompts, prompt)

	if m.StreamErr != nil {
		return nil, m.StreamErr
	}
	return &mockStream{
		owner:     m,
		fragments: append([]models.Fragment(nil), m.Fragments...),
		err:       m.NextErr,
	}, nil
}

// CallCount returns how many streams were requested
func (m *MockChatSession) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

type mockStream struct {
	owner     *MockChatSession
	fragments []models.Fragment
	err       error
}

func (s *mockStream) Next() (models.Fragment, error) {
	if len(s.fragments) > 0 {
		f := s.fragments[0]
		s.fragments = s.fragments[1:]
		return f, nil
	}
	if s.err != nil {
		return models.Fragment{}, s.err
	}
	return models.Fragment{}, io.EOF
}

func (s *mockStream) Close() error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	s.owner.CloseCalled++
	return nil
}

// TextFragments builds plain text fragments
func TextFragments(texts ...string) []models.Fragment {
	out := make([]models.Fragment, len(texts))
	for i, t := range texts {
		out[i] = models.Fragment{Text: t}
	}
	return out
}
