package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/diogo/evychat/internal/models"
	"github.com/diogo/evychat/internal/render"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
	}{
		{"short", "Tesla", 20},
		{"long", "Supercharger network expansion announced for 2025 in Europe", 20},
		{"wide runes", "テスラのスーパーチャージャー網が拡大", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateTitle(tt.in, tt.width)
			if w := runewidth.StringWidth(got); w > tt.width {
				t.Errorf("width %d exceeds %d: %q", w, tt.width, got)
			}
			if runewidth.StringWidth(tt.in) <= tt.width && got != tt.in {
				t.Errorf("short title changed: %q", got)
			}
		})
	}
}

func TestRenderSources(t *testing.T) {
	out := renderSources([]models.Source{
		{URI: "https://tesla.com/supercharger", Title: "Supercharger"},
		{URI: "https://example.com/battery", Title: "Battery care"},
	}, 60)

	for _, want := range []string{"Sources", "1.", "Supercharger", "2.", "https://example.com/battery"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderConversation(t *testing.T) {
	msgs := []models.Message{
		models.GreetingMessage(),
		models.NewUserMessage("Range of a Model Y?"),
		models.NewPlaceholder(),
	}

	out := renderConversation(msgs, 80, render.DefaultOptions())

	if !strings.Contains(out, "Range of a Model Y?") {
		t.Error("user text missing")
	}
	if !strings.Contains(out, models.AssistantName) {
		t.Error("assistant label missing")
	}
	if !strings.Contains(out, models.Placeholder) {
		t.Error("placeholder missing")
	}
}
