package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/evychat/internal/theme"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string
	// Mode is the display theme the palette is designed for
	Mode theme.Theme

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default dark theme based on Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",
		Mode:        theme.Dark,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// CatppuccinMochaTheme is based on Catppuccin Mocha palette
	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",
		Mode:        theme.Dark,

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"), // Blue
		Secondary: lipgloss.Color("#a6e3a1"), // Green
		Accent:    lipgloss.Color("#cba6f7"), // Mauve
		Warning:   lipgloss.Color("#f9e2af"), // Yellow
		Error:     lipgloss.Color("#f38ba8"), // Red

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	// SlateTheme uses gray panels with electric blue accents
	SlateTheme = TUITheme{
		Name:        "slate",
		Description: "Slate - Gray panels with electric blue accents",
		Mode:        theme.Dark,

		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#1f2937"),
		Border:     lipgloss.Color("#374151"),

		Primary:   lipgloss.Color("#2563eb"),
		Secondary: lipgloss.Color("#10b981"),
		Accent:    lipgloss.Color("#60a5fa"),
		Warning:   lipgloss.Color("#f59e0b"),
		Error:     lipgloss.Color("#ef4444"),

		Text:     lipgloss.Color("#f9fafb"),
		TextDim:  lipgloss.Color("#9ca3af"),
		TextMute: lipgloss.Color("#4b5563"),
	}

	// DaylightTheme is the default light theme
	DaylightTheme = TUITheme{
		Name:        "daylight",
		Description: "Daylight - Light theme with blue accents",
		Mode:        theme.Light,

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f3f4f6"),
		Border:     lipgloss.Color("#d1d5db"),

		Primary:   lipgloss.Color("#1d4ed8"),
		Secondary: lipgloss.Color("#047857"),
		Accent:    lipgloss.Color("#7c3aed"),
		Warning:   lipgloss.Color("#b45309"),
		Error:     lipgloss.Color("#b91c1c"),

		Text:     lipgloss.Color("#111827"),
		TextDim:  lipgloss.Color("#6b7280"),
		TextMute: lipgloss.Color("#d1d5db"),
	}

	// SolarizedLightTheme is based on the Solarized light palette
	SolarizedLightTheme = TUITheme{
		Name:        "solarized-light",
		Description: "Solarized Light - Warm low-contrast light theme",
		Mode:        theme.Light,

		Background: lipgloss.Color("#fdf6e3"),
		Surface:    lipgloss.Color("#eee8d5"),
		Border:     lipgloss.Color("#93a1a1"),

		Primary:   lipgloss.Color("#268bd2"), // Blue
		Secondary: lipgloss.Color("#859900"), // Green
		Accent:    lipgloss.Color("#6c71c4"), // Violet
		Warning:   lipgloss.Color("#b58900"), // Yellow
		Error:     lipgloss.Color("#dc322f"), // Red

		Text:     lipgloss.Color("#586e75"),
		TextDim:  lipgloss.Color("#93a1a1"),
		TextMute: lipgloss.Color("#eee8d5"),
	}
)

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// ResolveTUITheme picks the palette for a display theme. The named
// palette is used when it exists and matches the mode; otherwise the
// mode's default palette is returned.
func ResolveTUITheme(mode theme.Theme, name string) TUITheme {
	if t, ok := GetTUIThemeByName(name); ok && t.Mode == mode {
		return t
	}
	if mode == theme.Light {
		return DaylightTheme
	}
	return TokyoNightTheme
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinMochaTheme,
		SlateTheme,
		DaylightTheme,
		SolarizedLightTheme,
	}
}

// TUIThemeNames returns the palette names available for a display theme
func TUIThemeNames(mode theme.Theme) []string {
	var names []string
	for _, t := range AvailableTUIThemes() {
		if t.Mode == mode {
			names = append(names, t.Name)
		}
	}
	return names
}
