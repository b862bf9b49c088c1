package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/render"
)

const (
	minBubbleWidth = 20
	// Titles longer than this are cut with an ellipsis
	maxSourceTitleWidth = 60
)

// renderConversation draws every message as a chat bubble: user messages
// on the right, model messages on the left with markdown and sources.
func renderConversation(msgs []models.Message, width int, md render.Options) string {
	var content strings.Builder

	for i, msg := range msgs {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.Role == models.RoleUser {
			content.WriteString(renderUserBubble(msg, width))
		} else {
			content.WriteString(renderModelBubble(msg, width, md))
		}
		content.WriteString("\n")
	}

	return content.String()
}

func bubbleWidth(width int) int {
	w := width * 3 / 4
	if w < minBubbleWidth {
		w = minBubbleWidth
	}
	return w
}

func renderUserBubble(msg models.Message, width int) string {
	w := bubbleWidth(width)

	textWidth := lipgloss.Width(msg.Text) + 4
	if textWidth < w {
		w = textWidth
	}

	label := userLabelStyle.Render(msg.Role.DisplayName())
	bubble := userBubbleStyle.Width(w).Render(msg.Text)
	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)

	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

func renderModelBubble(msg models.Message, width int, md render.Options) string {
	w := bubbleWidth(width)
	label := assistantLabelStyle.Render("✦ " + msg.Role.DisplayName())

	body := msg.Text
	if body == models.Placeholder {
		body = loadingStyle.Render(models.Placeholder)
	} else {
		body = render.Reply(msg.Text, md.WithWidth(w-4))
	}

	if len(msg.Sources) > 0 {
		body += "\n\n" + renderSources(msg.Sources, w-4)
	}

	return label + "\n" + assistantBubbleStyle.Width(w).Render(body)
}

// renderSources lists citations as numbered title and link pairs
func renderSources(sources []models.Source, width int) string {
	titleWidth := width - 4
	if titleWidth > maxSourceTitleWidth {
		titleWidth = maxSourceTitleWidth
	}

	lines := []string{sourcesHeaderStyle.Render("Sources")}
	for i, s := range sources {
		index := sourceIndexStyle.Render(fmt.Sprintf("%d.", i+1))
		title := sourceTitleStyle.Render(truncateTitle(s.Title, titleWidth))
		lines = append(lines, index+" "+title)
		lines = append(lines, "   "+sourceLinkStyle.Render(s.URI))
	}
	return strings.Join(lines, "\n")
}

// truncateTitle shortens s to width display cells
func truncateTitle(s string, width int) string {
	if width <= 1 {
		width = 1
	}
	return runewidth.Truncate(s, width, "…")
}
