package history

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/diogo/evychat/internal/models"
)

func sampleConversation() []models.Message {
	return []models.Message{
		{ID: "1", Role: models.RoleModel, Text: models.Greeting},
		{ID: "2", Role: models.RoleUser, Text: "What is Supercharging?"},
		{ID: "3", Role: models.RoleModel, Text: "Tesla's fast charging network.", Sources: []models.Source{
			{URI: "https://tesla.com/supercharger", Title: "Supercharger"},
		}},
	}
}

func TestExportToMarkdown(t *testing.T) {
	md := ExportToMarkdown(sampleConversation(), ExportOptions{
		Session:        "work",
		Model:          "gemini-2.5-flash",
		IncludeSources: true,
		ExportedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	for _, want := range []string{
		"# Conversation with EVy",
		"**Session:** work",
		"**Model:** gemini-2.5-flash",
		"**Exported:** 2025-01-02 03:04:05",
		"**Messages:** 3",
		"## You",
		"## EVy",
		"What is Supercharging?",
		"- [Supercharger](https://tesla.com/supercharger)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportToMarkdown_WithoutSources(t *testing.T) {
	md := ExportToMarkdown(sampleConversation(), ExportOptions{})

	if strings.Contains(md, "**Sources:**") {
		t.Error("markdown should not contain sources when disabled")
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleConversation(), ExportOptions{Session: "default", IncludeSources: true})
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var doc struct {
		Session  string           `json:"session"`
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Session != "default" || len(doc.Messages) != 3 {
		t.Errorf("unexpected document: %+v", doc)
	}
	if len(doc.Messages[2].Sources) != 1 {
		t.Errorf("sources missing: %+v", doc.Messages[2])
	}

	stripped, _ := ExportToJSON(sampleConversation(), ExportOptions{})
	if strings.Contains(string(stripped), "sources") {
		t.Error("sources should be omitted when disabled")
	}
}

func TestExport_Format(t *testing.T) {
	if _, err := Export(nil, ExportOptions{Format: "xml"}); err == nil {
		t.Error("unknown format should fail")
	}
	out, err := Export(sampleConversation(), ExportOptions{Format: ExportFormatJSON})
	if err != nil || !json.Valid(out) {
		t.Errorf("Export(json) = %s, %v", out, err)
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := map[string]ExportFormat{
		"":         ExportFormatMarkdown,
		"md":       ExportFormatMarkdown,
		"Markdown": ExportFormatMarkdown,
		"json":     ExportFormatJSON,
	}
	for in, want := range tests {
		got, err := ParseExportFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseExportFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseExportFormat("pdf"); err == nil {
		t.Error("pdf should be rejected")
	}
}

func TestSearch(t *testing.T) {
	results := Search(sampleConversation(), "supercharging")
	if len(results) != 1 || results[0].Index != 1 {
		t.Fatalf("Search = %+v", results)
	}
	if results[0].MatchSnippet != "What is Supercharging?" {
		t.Errorf("snippet = %q", results[0].MatchSnippet)
	}

	if Search(sampleConversation(), "  ") != nil {
		t.Error("blank query should match nothing")
	}
}

func TestExtractSnippet(t *testing.T) {
	content := strings.Repeat("a", 200) + "battery" + strings.Repeat("b", 200)
	snippet := extractSnippet(content, "battery", 50)

	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") {
		t.Errorf("snippet should be truncated on both sides: %q", snippet)
	}
	if !strings.Contains(snippet, "battery") {
		t.Error("snippet should contain the match")
	}
}
