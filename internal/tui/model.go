package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/evychat/internal/api"
	"github.com/diogo/evychat/internal/config"
	"github.com/diogo/evychat/internal/dictation"
	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/history"
	"github.com/diogo/evychat/internal/logging"
	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/render"
	"github.com/diogo/evychat/internal/theme"
)

// Animation tick message
type animationTickMsg time.Time

type (
	dictationDoneMsg struct {
		text string
		err  error
	}
	clipboardMsg struct {
		err error
	}
	// recorderExitedMsg reports that recording gen ended without ctrl+r
	recorderExitedMsg struct {
		gen int
	}
)

// Options wires the chat model to its collaborators
type Options struct {
	Store *history.Store
	// Session is nil when the client could not be initialized
	Session api.ChatSessionInterface
	// InitErr explains a nil Session
	InitErr   error
	Theme     *theme.Preference
	Dictation dictation.Recognizer
	Config    config.Config
	ModelName string
	Grounding bool
	Logger    *slog.Logger
	// Clipboard defaults to the system clipboard
	Clipboard func(string) error
}

// Model represents the TUI state
type Model struct {
	store      *history.Store
	session    api.ChatSessionInterface
	prefs      *theme.Preference
	recognizer dictation.Recognizer
	cfg        config.Config
	logger     *slog.Logger
	copyText   func(string) error
	modelName  string
	grounding  bool

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	listening      bool
	dictationGen   int
	ready          bool
	streamCh       chan tea.Msg
	initErr        error
	streamErr      error
	notice         string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = models.InputPlaceholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points

	logger := logging.OrDiscard(opts.Logger).With("component", "tui")

	prefs := opts.Theme
	if prefs == nil {
		prefs = theme.Load(nil, logger)
	}

	recognizer := opts.Dictation
	if recognizer == nil {
		recognizer = dictation.Unavailable{}
	}

	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	var initErr error
	if opts.Session == nil {
		initErr = opts.InitErr
		if !apierrors.IsInitError(initErr) {
			initErr = apierrors.NewInitError(initErr)
		}
	}

	m := Model{
		store:      opts.Store,
		session:    opts.Session,
		prefs:      prefs,
		recognizer: recognizer,
		cfg:        opts.Config,
		logger:     logger,
		copyText:   copyText,
		modelName:  opts.ModelName,
		grounding:  opts.Grounding,
		textarea:   ta,
		spinner:    s,
		initErr:    initErr,
	}
	m.applyTheme()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+t":
			m.prefs.Toggle()
			m.applyTheme()
			m.refreshViewport()
			return m, nil

		case "ctrl+r":
			return m.toggleDictation()

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			return m.submit()
		}

	case replyUpdateMsg:
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, waitForStream(m.streamCh)

	case replyDoneMsg:
		m.loading = false
		m.streamCh = nil
		switch {
		case apierrors.IsInitError(msg.result.Err):
			m.initErr = msg.result.Err
		case msg.result.Err != nil:
			m.streamErr = msg.result.Err
		}
		m.refreshViewport()
		m.viewport.GotoBottom()

	case dictationDoneMsg:
		if msg.err != nil {
			m.logger.Warn("dictation failed", "error", msg.err)
			m.notice = "Voice input failed"
		} else if msg.text != "" {
			text := msg.text
			if current := strings.TrimSpace(m.textarea.Value()); current != "" {
				text = current + " " + text
			}
			m.textarea.SetValue(text)
			m.notice = ""
		}

	case recorderExitedMsg:
		if m.listening && msg.gen == m.dictationGen {
			return m.stopDictation()
		}

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", "error", msg.err)
			m.notice = "Clipboard is not available"
		} else {
			m.notice = "Copied last reply"
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading && !m.listening {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the textarea content when it is non-blank and no request
// is in flight
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	trimmed := strings.TrimSpace(input)
	if m.loading || m.listening || trimmed == "" {
		return m, nil
	}

	switch trimmed {
	case "/exit", "/quit":
		return m, tea.Quit
	case "/clear":
		m.textarea.Reset()
		m.clearConversation()
		return m, nil
	}

	m.textarea.Reset()
	m.streamErr = nil
	m.notice = ""
	m.loading = true
	m.animationFrame = 0
	m.streamCh = beginStream(context.Background(), m.store, m.session, m.logger, input)

	return m, tea.Batch(
		waitForStream(m.streamCh),
		m.spinner.Tick,
		animationTick(),
	)
}

// clearConversation resets the store to the greeting and drops the
// session's model-side context
func (m *Model) clearConversation() {
	m.store.Reset()
	if r, ok := m.session.(interface{ Reset() }); ok {
		r.Reset()
	}
	m.streamErr = nil
	m.notice = "Conversation cleared"
	m.refreshViewport()
	m.viewport.GotoTop()
}

func (m Model) toggleDictation() (tea.Model, tea.Cmd) {
	if !m.recognizer.Available() {
		m.notice = "Voice input is not available"
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	if !m.listening {
		if err := m.recognizer.Start(context.Background()); err != nil {
			m.logger.Warn("dictation start failed", "error", err)
			m.notice = "Voice input failed"
			return m, nil
		}
		m.listening = true
		m.dictationGen++
		m.notice = ""
		return m, waitForRecorder(m.recognizer.Done(), m.dictationGen)
	}

	return m.stopDictation()
}

func (m Model) stopDictation() (tea.Model, tea.Cmd) {
	m.listening = false
	rec := m.recognizer
	return m, func() tea.Msg {
		text, err := rec.Stop()
		return dictationDoneMsg{text: text, err: err}
	}
}

// waitForRecorder reports when the recorder behind done exits
func waitForRecorder(done <-chan struct{}, gen int) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return recorderExitedMsg{gen: gen}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	last, ok := m.store.Last(models.RoleModel)
	if !ok || last.Text == models.Placeholder {
		return nil
	}
	copyText := m.copyText
	return func() tea.Msg {
		return clipboardMsg{err: copyText(last.Text)}
	}
}

// applyTheme restyles the UI for the current display theme
func (m *Model) applyTheme() {
	mode := m.prefs.Get()
	name := m.cfg.DarkTUITheme
	if mode == theme.Light {
		name = m.cfg.LightTUITheme
	}
	ApplyTheme(render.ResolveTUITheme(mode, name))

	m.textarea.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
	m.spinner.Style = loadingStyle
}

func (m *Model) layout() {
	headerHeight := 3 // Header panel with border
	inputHeight := 5  // Input panel with border
	statusHeight := 2 // Status bar and notice line
	bannerHeight := 0
	if m.initErr != nil {
		bannerHeight = 3
	}

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - bannerHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
}

// refreshViewport redraws the conversation from the store
func (m *Model) refreshViewport() {
	if !m.ready || m.store == nil {
		return
	}
	md := render.OptionsFromConfig(m.cfg, m.prefs.Get())
	m.viewport.SetContent(renderConversation(m.store.Snapshot(), m.viewport.Width-2, md))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	sections = append(sections, headerStyle.Width(contentWidth).Render(m.renderHeader()))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	if m.initErr != nil {
		sections = append(sections, initBannerStyle.Width(contentWidth).
			Render("⚠ "+apierrors.UserMessage(m.initErr)))
	}

	var inputContent string
	switch {
	case m.loading:
		inputContent = m.renderLoadingAnimation()
	case m.listening:
		inputContent = listeningStyle.Render("● Listening...") +
			hintStyle.Render("  ctrl+r to stop")
	default:
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	switch {
	case m.streamErr != nil:
		sections = append(sections, errorStyle.Render("⚠ "+apierrors.UserMessage(m.streamErr)))
	case m.notice != "":
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	search := badgeOffStyle.Render("search off")
	if m.grounding {
		search = badgeOnStyle.Render("search on")
	}

	icon := "☾"
	if m.prefs.Get() == theme.Light {
		icon = "☀"
	}

	sep := hintStyle.Render("  •  ")
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ "+models.AssistantName),
		sep,
		subtitleStyle.Render(m.modelName),
		sep,
		search,
		sep,
		subtitleStyle.Render(icon+" "+m.prefs.Get().String()),
	)
}

// renderLoadingAnimation renders an animated progress bar while the
// reply streams in
func (m Model) renderLoadingAnimation() string {
	frame := m.animationFrame

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		char := "━"
		if (i+frame/2)%barWidth > barWidth-4 {
			char = "─"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(char))
	}

	text := lipgloss.NewStyle().Foreground(colorText).
		Render(fmt.Sprintf(" %s is typing ", models.AssistantName))

	return fmt.Sprintf("%s %s %s", m.spinner.View(), bar.String(), text)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key     string
		desc    string
		enabled bool
	}{
		{"Enter", "Send", true},
		{"^T", "Theme", true},
		{"^R", "Voice", m.recognizer.Available()},
		{"^Y", "Copy", true},
		{"Esc", "Quit", true},
	}

	var items []string
	for _, s := range shortcuts {
		if !s.enabled {
			items = append(items, statusDisabledStyle.Render(s.key+" "+s.desc))
			continue
		}
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunChat starts the chat TUI
func RunChat(opts Options) error {
	m := NewChatModel(opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
