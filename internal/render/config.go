package render

import (
	"os"

	"github.com/diogo/evychat/internal/config"
	"github.com/diogo/evychat/internal/theme"
)

// StyleEnv overrides the markdown style for every display theme
const StyleEnv = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from user configuration and
// the current display theme. GLAMOUR_STYLE takes precedence over the
// theme-derived style.
func OptionsFromConfig(cfg config.Config, mode theme.Theme) Options {
	opts := DefaultOptions().WithStyle(MarkdownStyle(mode))

	opts.MarkdownConfig = cfg.Markdown

	if style := os.Getenv(StyleEnv); style != "" {
		opts.Style = style
	}

	return opts
}
