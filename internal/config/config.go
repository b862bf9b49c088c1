// Package config handles configuration and credential loading for evychat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HomeEnv overrides the configuration directory when set
const HomeEnv = "EVYCHAT_HOME"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	EnableEmoji      bool `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	DefaultModel string `json:"default_model"`
	// Grounding attaches the Google Search tool to the chat session so
	// answers come back with citations.
	Grounding bool `json:"grounding"`
	// Session selects the session-scoped storage directory.
	Session string `json:"session"`
	// SystemInstruction overrides the built-in EVy instruction when non-empty.
	SystemInstruction string `json:"system_instruction,omitempty"`
	// DictationCommand is an external program that records speech and
	// prints the final transcript on stdout when interrupted.
	DictationCommand string `json:"dictation_command,omitempty"`
	// RequestTimeout bounds one streamed request, in seconds.
	RequestTimeout int            `json:"request_timeout"`
	Verbose        bool           `json:"verbose"`
	DarkTUITheme   string         `json:"tui_theme_dark,omitempty"`
	LightTUITheme  string         `json:"tui_theme_light,omitempty"`
	Markdown       MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:   "gemini-2.5-flash",
		Grounding:      true,
		Session:        "default",
		RequestTimeout: 300,
		Verbose:        false,
		DarkTUITheme:   "tokyonight",
		LightTUITheme:  "daylight",
		Markdown:       DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".evychat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the API key and conversation history
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

func pathInConfigDir(elem ...string) (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{configDir}, elem...)...), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	return pathInConfigDir("config.json")
}

// GetStatePath returns the path to the durable key-value database
func GetStatePath() (string, error) {
	return pathInConfigDir("state.db")
}

// GetLogPath returns the path to the log file
func GetLogPath() (string, error) {
	return pathInConfigDir("evychat.log")
}

// GetSessionDir returns the session-scoped storage directory for a session name
func GetSessionDir(session string) (string, error) {
	if session == "" {
		session = "default"
	}
	if strings.ContainsAny(session, `/\`) || session == "." || session == ".." {
		return "", fmt.Errorf("invalid session name: %q", session)
	}
	return pathInConfigDir("sessions", session)
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the settable configuration keys
func Keys() []string {
	return []string{
		"default_model",
		"grounding",
		"session",
		"system_instruction",
		"dictation_command",
		"request_timeout",
		"verbose",
		"tui_theme_dark",
		"tui_theme_light",
	}
}

// Set assigns a configuration value from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_model":
		c.DefaultModel = value
	case "grounding":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("grounding: %w", err)
		}
		c.Grounding = b
	case "session":
		if _, err := GetSessionDir(value); err != nil {
			return err
		}
		c.Session = value
	case "system_instruction":
		c.SystemInstruction = value
	case "dictation_command":
		c.DictationCommand = value
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("request_timeout must be a positive number of seconds")
		}
		c.RequestTimeout = n
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose: %w", err)
		}
		c.Verbose = b
	case "tui_theme_dark":
		c.DarkTUITheme = value
	case "tui_theme_light":
		c.LightTUITheme = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// AvailableModels returns a list of available model names
func AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-2.0-flash",
	}
}
