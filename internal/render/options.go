// Package render turns assistant replies into styled terminal output.
package render

import (
	"fmt"

	"github.com/diogo/evychat/internal/config"
)

const (
	defaultWidth = 80
	// minWidth keeps glamour from wrapping every word on narrow panes
	minWidth = 20
)

// Options selects how a reply is rendered. The markdown switches come
// straight from the user's config.
type Options struct {
	Width int
	// Style is a glamour style name or a path to a JSON style file
	Style string
	config.MarkdownConfig
}

// DefaultOptions renders 80 columns wide in the dark style
func DefaultOptions() Options {
	return Options{
		Width:          defaultWidth,
		Style:          StyleDark,
		MarkdownConfig: config.DefaultMarkdownConfig(),
	}
}

// WithWidth returns a copy wrapping at width, never below minWidth
func (o Options) WithWidth(width int) Options {
	if width < minWidth {
		width = minWidth
	}
	o.Width = width
	return o
}

// WithStyle returns a copy using style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

func (o Options) key() string {
	return fmt.Sprintf("%s|%d|%t%t%t%t", o.Style, o.Width,
		o.EnableEmoji, o.PreserveNewLines, o.TableWrap, o.InlineTableLinks)
}
