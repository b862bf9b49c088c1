package render

import (
	"github.com/charmbracelet/glamour/styles"

	"github.com/diogo/evychat/internal/theme"
)

// Markdown style names understood by glamour
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// IsBuiltinStyle returns true if glamour ships the named style
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}

// MarkdownStyle returns the glamour style for a display theme
func MarkdownStyle(t theme.Theme) string {
	if t == theme.Light {
		return StyleLight
	}
	return StyleDark
}

// StyleInfo contains information about a style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the markdown styles accepted by GLAMOUR_STYLE
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}
