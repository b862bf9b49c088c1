// Package tui provides the terminal user interface for evychat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style
	badgeOnStyle  lipgloss.Style
	badgeOffStyle lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	// Citation list under a model bubble
	sourcesHeaderStyle lipgloss.Style
	sourceIndexStyle   lipgloss.Style
	sourceTitleStyle   lipgloss.Style
	sourceLinkStyle    lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style
	listeningStyle  lipgloss.Style

	statusBarStyle      lipgloss.Style
	statusKeyStyle      lipgloss.Style
	statusDescStyle     lipgloss.Style
	statusDisabledStyle lipgloss.Style
	noticeStyle         lipgloss.Style

	// Standing banner for a failed initialization
	initBannerStyle lipgloss.Style
	// Transient banner for a failed request
	errorStyle lipgloss.Style
)

// Gradient colors for the loading animation (fixed colors)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#60a5fa"),
	lipgloss.Color("#22d3ee"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#a3e635"),
	lipgloss.Color("#22d3ee"),
}

func init() {
	ApplyTheme(render.TokyoNightTheme)
}

// ApplyTheme refreshes all styles from a TUI palette
func ApplyTheme(t render.TUITheme) {
	colorBorder = t.Border
	colorPrimary = t.Primary
	colorSecondary = t.Secondary
	colorAccent = t.Accent
	colorWarning = t.Warning
	colorError = t.Error
	colorText = t.Text
	colorTextDim = t.TextDim
	colorTextMute = t.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	badgeOnStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	badgeOffStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// User bubbles sit on the right
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Foreground(colorText).
		Padding(0, 1)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	sourcesHeaderStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	sourceIndexStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	sourceTitleStyle = lipgloss.NewStyle().
		Foreground(colorText)

	sourceLinkStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Underline(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	listeningStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusDisabledStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Strikethrough(true)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Italic(true)

	initBannerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Foreground(colorError).
		Bold(true).
		Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)
}

// FormatError returns a styled error message for command-line output.
// Chat failures show only their fixed user message; the cause is in the
// log. Other errors carry their detail below the headline.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	if errors.IsInitError(err) || errors.IsStreamError(err) {
		sb.WriteString(errStyle.Render("✗ " + errors.UserMessage(err)))
	} else {
		sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))
		if status := errors.GetHTTPStatus(err); status > 0 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
		}
	}

	switch {
	case errors.IsInitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Set GEMINI_API_KEY or run 'evychat config set-key'"))
	case errors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The API key was rejected. Check that it is valid"))
	case errors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
	case errors.IsBlockedError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The prompt was blocked by safety filters. Try rephrasing it"))
	}

	return sb.String()
}
