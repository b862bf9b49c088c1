package api

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/diogo/evychat/internal/models"
)

// maxChunkSize bounds a single SSE line
const maxChunkSize = 1 << 20

// Stream reads fragments from a streamGenerateContent SSE response
type Stream struct {
	ctx      context.Context
	cancel   context.CancelFunc
	body     io.ReadCloser
	scanner  *bufio.Scanner
	endpoint string

	reply strings.Builder
	// onComplete runs once with the full reply after a clean end of stream
	onComplete func(reply string)

	mu     sync.Mutex
	done   bool
	err    error
	closed bool
}

func newStream(ctx context.Context, cancel context.CancelFunc, body io.ReadCloser, endpoint string) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxChunkSize)

	return &Stream{
		ctx:      ctx,
		cancel:   cancel,
		body:     body,
		scanner:  scanner,
		endpoint: endpoint,
	}
}

// Next returns the next fragment carrying text or grounding metadata.
// It returns io.EOF after the last fragment; any other error ends the
// stream and is returned again by later calls.
func (s *Stream) Next() (models.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return models.Fragment{}, s.err
	}
	if s.done {
		return models.Fragment{}, io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if !bytes.HasPrefix(line, []byte(sseDataPrefix)) {
			// Blank separators, comments and event names
			continue
		}

		data := bytes.TrimSpace(line[len(sseDataPrefix):])
		if len(data) == 0 {
			continue
		}
		if string(data) == sseDone {
			break
		}

		frag, err := parseChunk(data)
		if err != nil {
			return models.Fragment{}, s.failLocked(err)
		}
		if frag.Text == "" && !frag.HasGrounding {
			continue
		}

		s.reply.WriteString(frag.Text)
		return frag, nil
	}

	if err := s.scanner.Err(); err != nil {
		return models.Fragment{}, s.failLocked(transportError(s.ctx, "read stream", s.endpoint, err))
	}
	if err := s.ctx.Err(); err != nil {
		return models.Fragment{}, s.failLocked(transportError(s.ctx, "read stream", s.endpoint, err))
	}

	s.done = true
	s.releaseLocked()
	if s.onComplete != nil {
		s.onComplete(s.reply.String())
	}
	return models.Fragment{}, io.EOF
}

// Close releases the response. Closing before io.EOF abandons the reply
// and leaves the session history untouched.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked()
}

func (s *Stream) failLocked(err error) error {
	s.err = err
	s.releaseLocked()
	return err
}

func (s *Stream) releaseLocked() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.body.Close()
	s.cancel()
	return err
}
