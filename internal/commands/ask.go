package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/evychat/internal/assistant"
	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/render"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)

	sourcesStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// stdin is replaced in tests
var stdin io.Reader = os.Stdin

type askOptions struct {
	file   string
	output string
	raw    bool
}

func bindAskFlags(cmd *cobra.Command, o *askOptions) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "Print only the response text")
}

func newAskCmd(g *globalOptions) *cobra.Command {
	o := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask a single question and print the answer",
		Long: `Send one prompt and stream the answer to stdout. The prompt comes from
the argument, --file, or piped stdin. Citations are listed after the
answer. The exchange is recorded in the current session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, g, o, args)
		},
	}
	bindAskFlags(cmd, o)
	return cmd
}

// readPrompt resolves the prompt from --file, the argument, or stdin
func readPrompt(o *askOptions, args []string) (string, error) {
	switch {
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return args[0], nil
	case stdin != os.Stdin || stdinIsPiped():
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", errors.New("no prompt given: pass an argument, --file, or pipe stdin")
}

func runAsk(cmd *cobra.Command, g *globalOptions, o *askOptions, args []string) error {
	prompt, err := readPrompt(o, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(prompt) == "" {
		return apierrors.ErrEmptyMessage
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	deps, err := loadDependencies(g, loadOptions{client: true, mirror: errOut})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	if deps.Session == nil {
		if deps.InitErr != nil {
			return deps.InitErr
		}
		return apierrors.NewInitError(nil)
	}

	switch {
	case o.output != "":
		return askToFile(cmd.Context(), deps, prompt, o.output, errOut)
	case !o.raw && isTerminal(out):
		return askDecorated(cmd.Context(), deps, prompt, out, errOut)
	default:
		return askStreaming(cmd.Context(), deps, prompt, out)
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// askStreaming prints text as fragments arrive, then the citations
func askStreaming(ctx context.Context, deps *Dependencies, prompt string, out io.Writer) error {
	var printed string
	asm := assistant.New(deps.Store, deps.Session,
		assistant.WithLogger(deps.Logger),
		assistant.WithUpdateHook(func(reply models.Message) {
			if reply.Text == models.Placeholder || !strings.HasPrefix(reply.Text, printed) {
				return
			}
			fmt.Fprint(out, reply.Text[len(printed):])
			printed = reply.Text
		}),
	)

	res := asm.Send(contextOrBackground(ctx), prompt)
	if res.Failed() {
		if printed != "" {
			fmt.Fprintln(out)
		}
		return res.Err
	}

	if !strings.HasSuffix(printed, "\n") {
		fmt.Fprintln(out)
	}
	if len(res.Sources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, formatSources(res.Sources, 0))
	}
	return nil
}

// askDecorated shows a spinner, then the answer as rendered markdown
func askDecorated(ctx context.Context, deps *Dependencies, prompt string, out, errOut io.Writer) error {
	spin := newSpinner(errOut, fmt.Sprintf("%s is thinking", models.AssistantName))
	spin.start()

	asm := assistant.New(deps.Store, deps.Session, assistant.WithLogger(deps.Logger))
	startTime := time.Now()
	res := asm.Send(contextOrBackground(ctx), prompt)

	if res.Failed() {
		spin.stopWithError()
		return res.Err
	}
	spin.stopWithSuccess("Done")
	deps.Logger.Debug("ask complete", "duration", time.Since(startTime).Round(time.Millisecond))

	bubbleWidth := getTerminalWidth(out) - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(out, assistantLabelStyle.Render("✦ "+models.AssistantName))

	renderOpts := render.OptionsFromConfig(deps.Config, deps.Theme.Get()).WithWidth(contentWidth)
	rendered := render.Reply(res.Text, renderOpts)
	if len(res.Sources) > 0 {
		rendered += "\n\n" + sourcesStyle.Render(strings.TrimRight(formatSources(res.Sources, contentWidth), "\n"))
	}

	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// askToFile writes the answer and its citations to path
func askToFile(ctx context.Context, deps *Dependencies, prompt, path string, errOut io.Writer) error {
	asm := assistant.New(deps.Store, deps.Session, assistant.WithLogger(deps.Logger))
	res := asm.Send(contextOrBackground(ctx), prompt)
	if res.Failed() {
		return res.Err
	}

	text := res.Text
	if len(res.Sources) > 0 {
		text = strings.TrimRight(text, "\n") + "\n\n" + formatSources(res.Sources, 0)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
		fmt.Sprintf("✓ Response saved to %s", path),
	)
	fmt.Fprintln(errOut, successMsg)
	return nil
}

// formatSources lists citations as numbered lines. Titles are truncated
// to width display cells when width is positive.
func formatSources(sources []models.Source, width int) string {
	var sb strings.Builder
	sb.WriteString("Sources:\n")
	for i, s := range sources {
		title := s.Title
		if width > 0 {
			title = truncate(title, width-4)
		}
		fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, title, s.URI)
	}
	return sb.String()
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
