package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/evychat/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat maps a user-supplied name to an ExportFormat
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", name)
	}
}

// ExportOptions configures how conversations are exported
type ExportOptions struct {
	Format         ExportFormat
	Session        string
	Model          string
	IncludeSources bool
	// ExportedAt defaults to the current time
	ExportedAt time.Time
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:         ExportFormatMarkdown,
		IncludeSources: true,
	}
}

// Export renders msgs in the format selected by opts
func Export(msgs []models.Message, opts ExportOptions) ([]byte, error) {
	switch opts.Format {
	case ExportFormatJSON:
		return ExportToJSON(msgs, opts)
	case ExportFormatMarkdown, "":
		return []byte(ExportToMarkdown(msgs, opts)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", opts.Format)
	}
}

// ExportToMarkdown renders a conversation snapshot as Markdown
func ExportToMarkdown(msgs []models.Message, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# Conversation with ")
	sb.WriteString(models.AssistantName)
	sb.WriteString("\n\n")

	if opts.Session != "" {
		sb.WriteString("**Session:** ")
		sb.WriteString(opts.Session)
		sb.WriteString("\n")
	}
	if opts.Model != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(opts.Model)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(exportTime(opts).Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(msgs)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range msgs {
		sb.WriteString("## ")
		sb.WriteString(msg.Role.DisplayName())
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if opts.IncludeSources && len(msg.Sources) > 0 {
			sb.WriteString("\n**Sources:**\n\n")
			for _, src := range msg.Sources {
				sb.WriteString(fmt.Sprintf("- [%s](%s)\n", src.Title, src.URI))
			}
		}

		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportDocument struct {
	Session    string           `json:"session,omitempty"`
	Model      string           `json:"model,omitempty"`
	ExportedAt time.Time        `json:"exported_at"`
	Messages   []models.Message `json:"messages"`
}

// ExportToJSON renders a conversation snapshot as indented JSON
func ExportToJSON(msgs []models.Message, opts ExportOptions) ([]byte, error) {
	doc := exportDocument{
		Session:    opts.Session,
		Model:      opts.Model,
		ExportedAt: exportTime(opts),
		Messages:   make([]models.Message, len(msgs)),
	}

	for i, msg := range msgs {
		doc.Messages[i] = msg.Clone()
		if !opts.IncludeSources {
			doc.Messages[i].Sources = nil
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}

// SearchResult represents a match inside a conversation
type SearchResult struct {
	Index        int
	Message      models.Message
	MatchSnippet string
}

// Search finds messages whose text contains query, case-insensitively
func Search(msgs []models.Message, query string) []SearchResult {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}

	var results []SearchResult
	for i, msg := range msgs {
		if strings.Contains(strings.ToLower(msg.Text), queryLower) {
			results = append(results, SearchResult{
				Index:        i,
				Message:      msg.Clone(),
				MatchSnippet: extractSnippet(msg.Text, queryLower, 100),
			})
		}
	}
	return results
}

// extractSnippet extracts a snippet around the first occurrence of query
func extractSnippet(content, query string, maxLen int) string {
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx == -1 {
		if len(content) > maxLen {
			return content[:maxLen] + "..."
		}
		return content
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len(query) + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(content) {
		end = len(content)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := content[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet = snippet + "..."
	}
	return snippet
}

func exportTime(opts ExportOptions) time.Time {
	if opts.ExportedAt.IsZero() {
		return time.Now()
	}
	return opts.ExportedAt
}
