// Package assistant turns one user submission into a finalized model
// message by consuming a streamed completion.
package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/diogo/evychat/internal/api"
	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/history"
	"github.com/diogo/evychat/internal/logging"
	"github.com/diogo/evychat/internal/models"
)

// Stages reported by StreamError
const (
	StageStart = "start"
	StageRead  = "read"
)

// Result describes one finished submission
type Result struct {
	UserID  string
	ReplyID string
	Text    string
	Sources []models.Source
	// Err is nil on success, an *errors.InitError when no session exists,
	// an *errors.StreamError when the request failed, or
	// errors.ErrEmptyMessage for blank input.
	Err error
}

// Failed reports whether the submission produced an error
func (r Result) Failed() bool {
	return r.Err != nil
}

// UserMessage returns the fixed text to show for Err, or ""
func (r Result) UserMessage() string {
	return apierrors.UserMessage(r.Err)
}

// UpdateFunc is called with the model message after every store update
type UpdateFunc func(reply models.Message)

// Assembler appends exchanges to the store and fills in the reply as
// fragments arrive
type Assembler struct {
	store    *history.Store
	session  api.ChatSessionInterface
	logger   *slog.Logger
	onUpdate UpdateFunc
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger for request failures
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithUpdateHook registers fn to run after every reply update
func WithUpdateHook(fn UpdateFunc) Option {
	return func(a *Assembler) {
		a.onUpdate = fn
	}
}

// New creates an Assembler. session may be nil when initialization
// failed; every Send then reports an InitError.
func New(store *history.Store, session api.ChatSessionInterface, opts ...Option) *Assembler {
	a := &Assembler{
		store:   store,
		session: session,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDiscard(a.logger).With("component", "assistant")
	return a
}

// Ready reports whether a chat session is available
func (a *Assembler) Ready() bool {
	return a.session != nil
}

// Send submits text and blocks until the reply is complete or failed.
// Errors never escape: they are reported through Result.Err and, for
// stream failures, by replacing the reply text with a fixed message.
func (a *Assembler) Send(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Err: apierrors.ErrEmptyMessage}
	}
	if a.session == nil {
		return Result{Err: apierrors.NewInitError(nil)}
	}

	user := models.Message{ID: models.NewID(), Role: models.RoleUser, Text: text}
	reply := models.Message{ID: models.NewID(), Role: models.RoleModel, Text: models.Placeholder}
	a.store.Append(user, reply)
	a.notify(reply.ID)

	res := Result{UserID: user.ID, ReplyID: reply.ID}

	stream, err := a.session.SendMessageStream(ctx, text)
	if err != nil {
		return a.fail(res, StageStart, err)
	}
	defer func() { _ = stream.Close() }()

	var acc strings.Builder
	var sources []models.Source

	for {
		frag, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return a.fail(res, StageRead, err)
		}

		acc.WriteString(frag.Text)
		if frag.HasGrounding {
			// Latest metadata wins
			sources = models.UsableSources(frag.Sources)
		}

		a.store.SetText(reply.ID, acc.String())
		a.notify(reply.ID)
	}

	res.Text = acc.String()
	if len(sources) > 0 {
		a.store.SetTextAndSources(reply.ID, res.Text, sources)
		a.notify(reply.ID)
		res.Sources = sources
	}

	a.logger.Debug("reply complete", "reply_id", reply.ID, "chars", len(res.Text), "sources", len(sources))
	return res
}

func (a *Assembler) fail(res Result, stage string, cause error) Result {
	a.logger.Error("chat request failed", "stage", stage, "reply_id", res.ReplyID, "error", cause)

	a.store.SetText(res.ReplyID, apierrors.MsgStreamFailure)
	a.notify(res.ReplyID)

	res.Text = apierrors.MsgStreamFailure
	res.Err = apierrors.NewStreamError(stage, cause)
	return res
}

func (a *Assembler) notify(id string) {
	if a.onUpdate == nil {
		return
	}
	if msg, ok := a.store.Get(id); ok {
		a.onUpdate(msg)
	}
}
