package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/evychat/internal/api"
	"github.com/diogo/evychat/internal/assistant"
	"github.com/diogo/evychat/internal/history"
	"github.com/diogo/evychat/internal/models"
)

// Messages sent from the stream goroutine to Bubble Tea
type (
	replyUpdateMsg struct {
		reply models.Message
	}
	replyDoneMsg struct {
		result assistant.Result
	}
)

// beginStream runs one submission on a goroutine. Every store update of
// the reply is forwarded over the returned channel, followed by a single
// replyDoneMsg; the channel is closed afterwards. Update reads it one
// message at a time through waitForStream so fragments redraw in order.
func beginStream(ctx context.Context, store *history.Store, session api.ChatSessionInterface, logger *slog.Logger, text string) chan tea.Msg {
	ch := make(chan tea.Msg, 64)

	asm := assistant.New(store, session,
		assistant.WithLogger(logger),
		assistant.WithUpdateHook(func(reply models.Message) {
			ch <- replyUpdateMsg{reply: reply}
		}),
	)

	go func() {
		defer close(ch)
		ch <- replyDoneMsg{result: asm.Send(ctx, text)}
	}()

	return ch
}

// waitForStream reads the next message from ch. A closed channel yields
// nil, which Bubble Tea ignores.
func waitForStream(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
