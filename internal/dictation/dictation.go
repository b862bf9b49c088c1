// Package dictation exposes speech-to-text as an optional capability.
// Call sites check Available before offering it.
package dictation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

var (
	ErrUnavailable      = errors.New("dictation is not available")
	ErrAlreadyListening = errors.New("dictation already in progress")
	ErrNotListening     = errors.New("dictation is not in progress")
)

// DefaultStopTimeout is how long Stop waits for the command to print
// its transcript before killing it
const DefaultStopTimeout = 5 * time.Second

// Recognizer records speech between Start and Stop and returns the final
// transcript
type Recognizer interface {
	Available() bool
	Start(ctx context.Context) error
	Stop() (string, error)
	Listening() bool
	// Done is closed when the current recording ends, including when the
	// recorder exits on its own. It is nil while idle.
	Done() <-chan struct{}
}

// Unavailable is the Recognizer used when no dictation backend exists
type Unavailable struct {
	Reason string
}

func (Unavailable) Available() bool                 { return false }
func (Unavailable) Start(ctx context.Context) error { return ErrUnavailable }
func (Unavailable) Stop() (string, error)           { return "", ErrUnavailable }
func (Unavailable) Listening() bool                 { return false }
func (Unavailable) Done() <-chan struct{}           { return nil }

// Detect returns an ExecRecognizer for command when its executable is
// found in PATH, Unavailable otherwise
func Detect(command string) Recognizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Unavailable{Reason: "no dictation command configured"}
	}

	path, err := exec.LookPath(fields[0])
	if err != nil {
		return Unavailable{Reason: fmt.Sprintf("%s not found in PATH", fields[0])}
	}
	return NewExecRecognizer(path, fields[1:]...)
}

// ExecRecognizer runs an external recorder. The command records until it
// receives an interrupt and then prints the transcript on stdout.
type ExecRecognizer struct {
	name        string
	args        []string
	stopTimeout time.Duration

	mu  sync.Mutex
	run *run
}

type run struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	done   chan struct{}
	err    error
}

// NewExecRecognizer creates a recognizer running name with args
func NewExecRecognizer(name string, args ...string) *ExecRecognizer {
	return &ExecRecognizer{
		name:        name,
		args:        args,
		stopTimeout: DefaultStopTimeout,
	}
}

func (r *ExecRecognizer) Available() bool {
	return true
}

// Listening reports whether a recording is in progress
func (r *ExecRecognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run != nil
}

// Start launches the recorder
func (r *ExecRecognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.run != nil {
		return ErrAlreadyListening
	}

	cur := &run{done: make(chan struct{})}
	cur.cmd = exec.CommandContext(ctx, r.name, r.args...)
	cur.cmd.Stdout = &cur.stdout
	cur.cmd.Stderr = &cur.stderr

	if err := cur.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start dictation command: %w", err)
	}

	go func() {
		cur.err = cur.cmd.Wait()
		close(cur.done)
	}()

	r.run = cur
	return nil
}

// Done is closed when the current recorder exits on its own or is
// stopped. It returns nil when nothing is recording.
func (r *ExecRecognizer) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil {
		return nil
	}
	return r.run.done
}

// Stop interrupts the recorder and returns its trimmed stdout
func (r *ExecRecognizer) Stop() (string, error) {
	r.mu.Lock()
	cur := r.run
	r.run = nil
	r.mu.Unlock()

	if cur == nil {
		return "", ErrNotListening
	}

	select {
	case <-cur.done:
	default:
		if err := cur.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
			_ = cur.cmd.Process.Kill()
		}
	}

	select {
	case <-cur.done:
	case <-time.After(r.stopTimeout):
		_ = cur.cmd.Process.Kill()
		<-cur.done
	}

	text := strings.TrimSpace(cur.stdout.String())
	if text == "" && cur.err != nil {
		if msg := strings.TrimSpace(cur.stderr.String()); msg != "" {
			return "", fmt.Errorf("dictation command failed: %w: %s", cur.err, msg)
		}
		return "", fmt.Errorf("dictation command failed: %w", cur.err)
	}
	return text, nil
}
