package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/evychat/internal/dictation"
	"github.com/diogo/evychat/internal/tui"
)

func newChatCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with EVy.

The conversation is saved per session and restored on the next run.
Type /clear to start over, /exit or /quit (or press Ctrl+C) to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(g)
		},
	}
}

// runTUI is replaced in tests
var runTUI = tui.RunChat

func runChat(g *globalOptions) error {
	deps, err := loadDependencies(g, loadOptions{client: true})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	recognizer := dictation.Detect(deps.Config.DictationCommand)
	if u, ok := recognizer.(dictation.Unavailable); ok {
		deps.Logger.Debug("dictation disabled", "reason", u.Reason)
	}

	return runTUI(chatOptions(deps, recognizer))
}

func chatOptions(deps *Dependencies, recognizer dictation.Recognizer) tui.Options {
	return tui.Options{
		Store:     deps.Store,
		Session:   deps.Session,
		InitErr:   deps.InitErr,
		Theme:     deps.Theme,
		Dictation: recognizer,
		Config:    deps.Config,
		ModelName: deps.Config.DefaultModel,
		Grounding: deps.Config.Grounding,
		Logger:    deps.Logger,
	}
}
