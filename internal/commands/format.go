package commands

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/diogo/evychat/internal/tui"
)

// truncate cuts s to at most maxLen display cells, ellipsis included
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", context, err))
}
