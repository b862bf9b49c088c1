package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/diogo/evychat/internal/errors"
)

// Environment variables checked for the API key, in order
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

// GetAPIKeyPath returns the path to the API key file
func GetAPIKeyPath() (string, error) {
	return pathInConfigDir("api_key")
}

// LoadAPIKey resolves the API key from the environment, then from the key file.
// Returns ErrNoAPIKey when neither source has one.
func LoadAPIKey() (string, error) {
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}

	keyPath, err := GetAPIKeyPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apierrors.ErrNoAPIKey
		}
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", apierrors.ErrNoAPIKey
	}
	return key, nil
}

// SaveAPIKey writes the API key file with owner-only permissions
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apierrors.ErrNoAPIKey
	}

	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(configDir, "api_key"), []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write API key file: %w", err)
	}
	return nil
}

// MaskAPIKey returns a display-safe form of the key
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
