// Package models contains data types and constants for the evychat client.
package models

import "strings"

// Endpoints for the Gemini API
const (
	EndpointBase = "https://generativelanguage.googleapis.com/v1beta"
)

// Model represents an available Gemini model
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	// ModelUnspecified is returned for unknown names
	ModelUnspecified = Model{
		Name: "unspecified",
	}

	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		Description: "Fast, balanced responses",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		Description: "Most capable, slower",
	}

	Model20Flash = Model{
		Name:        "gemini-2.0-flash",
		Description: "Previous generation, lowest latency",
	}

	// DefaultModel is the model the original assistant ships with
	DefaultModel = Model25Flash
)

// AllModels returns a list of all available models
func AllModels() []Model {
	return []Model{Model25Flash, Model25Pro, Model20Flash}
}

// ModelFromName returns a Model by its name
func ModelFromName(name string) Model {
	name = strings.TrimPrefix(strings.TrimSpace(name), "models/")
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	switch name {
	case "fast", "flash":
		return Model25Flash
	case "pro":
		return Model25Pro
	default:
		return ModelUnspecified
	}
}

// StreamEndpoint returns the SSE streaming URL for a model
func StreamEndpoint(base string, model Model) string {
	if base == "" {
		base = EndpointBase
	}
	return strings.TrimRight(base, "/") + "/models/" + model.Name + ":streamGenerateContent?alt=sse"
}

// AssistantName is the display name of the assistant
const AssistantName = "EVy"

// SystemInstruction is the fixed instruction the chat session is created with
const SystemInstruction = `You are an expert AI assistant specializing in Tesla, electric vehicles (EVs), batteries, sustainability, and related technologies. Your name is 'EVy'. You provide clear, accurate, and helpful information. You can answer general questions about Tesla models (Model S, 3, X, Y, Cybertruck, Roadster), specific features like Autopilot, battery technology, charging (including Supercharging, home charging, and third-party networks like ChargePoint and Blink), and general EV maintenance tips. Always maintain a friendly, knowledgeable, and slightly enthusiastic tone. Do not go off-topic. Format your responses with markdown for better readability, using lists, bold text, and italics where appropriate.`

// Greeting is the first model message of a fresh conversation
const Greeting = "Hello! I'm EVy, your expert AI assistant for everything related to Tesla, EVs, and sustainability. How can I help you today?"

// Placeholder is the text of a model message awaiting its first fragment
const Placeholder = "..."

// InputPlaceholder is shown in the empty input control
const InputPlaceholder = "Ask anything about Tesla, EVs, batteries..."
