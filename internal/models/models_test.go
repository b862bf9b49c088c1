package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAllModels(t *testing.T) {
	models := AllModels()

	if len(models) != 3 {
		t.Fatalf("AllModels() returned %d models, expected 3", len(models))
	}
	for _, model := range models {
		if model.Name == "" {
			t.Error("Model name should not be empty")
		}
	}
	if models[0] != DefaultModel {
		t.Errorf("first model = %s, want default %s", models[0].Name, DefaultModel.Name)
	}
}

func TestModelFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected Model
	}{
		{"gemini-2.5-flash", Model25Flash},
		{"models/gemini-2.5-pro", Model25Pro},
		{" gemini-2.0-flash ", Model20Flash},
		{"fast", Model25Flash},
		{"pro", Model25Pro},
		{"invalid-model", ModelUnspecified},
		{"", ModelUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := ModelFromName(tt.name)
			if model.Name != tt.expected.Name {
				t.Errorf("ModelFromName(%s) = %v, want %v", tt.name, model.Name, tt.expected.Name)
			}
		})
	}
}

func TestStreamEndpoint(t *testing.T) {
	got := StreamEndpoint("", Model25Flash)
	want := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:streamGenerateContent?alt=sse"
	if got != want {
		t.Errorf("StreamEndpoint() = %s, want %s", got, want)
	}

	got = StreamEndpoint("http://127.0.0.1:8080/", Model25Pro)
	if got != "http://127.0.0.1:8080/models/gemini-2.5-pro:streamGenerateContent?alt=sse" {
		t.Errorf("StreamEndpoint() with custom base = %s", got)
	}
}

func TestRole(t *testing.T) {
	if !RoleUser.Valid() || !RoleModel.Valid() {
		t.Error("known roles should be valid")
	}
	if Role("assistant").Valid() {
		t.Error("unknown role should be invalid")
	}
	if RoleModel.DisplayName() != "EVy" {
		t.Errorf("RoleModel.DisplayName() = %s", RoleModel.DisplayName())
	}
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %s", RoleUser.DisplayName())
	}
}

func TestNewMessages(t *testing.T) {
	user := NewUserMessage("How far can a Model 3 go?")
	placeholder := NewPlaceholder()

	if user.ID == "" || placeholder.ID == "" {
		t.Fatal("messages must have ids")
	}
	if user.ID == placeholder.ID {
		t.Error("ids must be unique")
	}
	if user.Role != RoleUser || placeholder.Role != RoleModel {
		t.Error("unexpected roles")
	}
	if placeholder.Text != Placeholder {
		t.Errorf("placeholder text = %q", placeholder.Text)
	}
	if !strings.Contains(GreetingMessage().Text, "EVy") {
		t.Error("greeting should introduce EVy")
	}
}

func TestMessageJSON_OmitsEmptySources(t *testing.T) {
	data, err := json.Marshal(Message{ID: "1", Role: RoleUser, Text: "hi"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "sources") {
		t.Errorf("empty sources should be omitted: %s", data)
	}

	data, _ = json.Marshal(Message{ID: "2", Role: RoleModel, Text: "x", Sources: []Source{{URI: "https://a", Title: "A"}}})
	want := `{"id":"2","role":"model","text":"x","sources":[{"uri":"https://a","title":"A"}]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestMessageClone(t *testing.T) {
	orig := Message{ID: "1", Sources: []Source{{URI: "u", Title: "t"}}}
	c := orig.Clone()
	c.Sources[0].Title = "changed"

	if orig.Sources[0].Title != "t" {
		t.Error("Clone should not share the sources slice")
	}
}

func TestUsableSources(t *testing.T) {
	in := []Source{
		{URI: "https://a", Title: "A"},
		{URI: "", Title: "no uri"},
		{URI: "https://c", Title: ""},
		{URI: "https://d", Title: "D"},
	}

	got := UsableSources(in)
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "D" {
		t.Errorf("UsableSources() = %+v", got)
	}

	if got := UsableSources(nil); got == nil || len(got) != 0 {
		t.Errorf("UsableSources(nil) = %#v, want empty non-nil", got)
	}
}
