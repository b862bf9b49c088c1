// Package theme holds the light/dark display preference.
package theme

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	apierrors "github.com/diogo/evychat/internal/errors"
	"github.com/diogo/evychat/internal/logging"
	"github.com/diogo/evychat/internal/storage"
)

// Theme is the display mode
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// Default applies when nothing valid is stored
	Default = Dark
)

// Valid reports whether t is light or dark
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

func (t Theme) String() string {
	return string(t)
}

// Parse converts a user-supplied name into a Theme
func Parse(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid theme %q (use light or dark)", s)
	}
	return t, nil
}

// Preference is the process-wide theme, read once from durable storage
// and written back on every change.
type Preference struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *slog.Logger
	theme  Theme
}

// Load reads the stored theme. A missing or invalid value yields Default.
func Load(kv storage.KV, logger *slog.Logger) *Preference {
	p := &Preference{
		kv:     kv,
		logger: logging.OrDiscard(logger).With("component", "theme"),
		theme:  Default,
	}

	if kv == nil {
		return p
	}

	raw, ok, err := kv.Get(storage.KeyTheme)
	switch {
	case err != nil:
		p.logger.Warn("failed to read theme",
			"error", apierrors.NewPersistenceError("read", storage.KeyTheme, err))
	case ok && Theme(raw).Valid():
		p.theme = Theme(raw)
	case ok:
		p.logger.Warn("ignoring invalid stored theme", "value", raw)
	}
	return p
}

// Get returns the current theme
func (p *Preference) Get() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

// Toggle flips the theme, persists it and returns the new value
func (p *Preference) Toggle() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = p.theme.Opposite()
	p.persistLocked()
	return p.theme
}

// Set changes the theme and persists it. Invalid values are rejected.
func (p *Preference) Set(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("invalid theme %q", t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = t
	p.persistLocked()
	return nil
}

func (p *Preference) persistLocked() {
	if p.kv == nil {
		return
	}
	if err := p.kv.Set(storage.KeyTheme, string(p.theme)); err != nil {
		p.logger.Error("failed to persist theme",
			"error", apierrors.NewPersistenceError("write", storage.KeyTheme, err))
	}
}
