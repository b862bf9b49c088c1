package theme

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/diogo/evychat/internal/storage"
)

func TestLoad_Default(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		set    bool
		want   Theme
	}{
		{"missing", "", false, Dark},
		{"invalid", "sepia", true, Dark},
		{"light", "light", true, Light},
		{"dark", "dark", true, Dark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			if tt.set {
				_ = kv.Set(storage.KeyTheme, tt.stored)
			}
			if got := Load(kv, nil).Get(); got != tt.want {
				t.Errorf("Get() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToggle_RoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	p := Load(kv, nil)
	original := p.Get()

	if got := p.Toggle(); got != original.Opposite() {
		t.Errorf("first Toggle() = %s", got)
	}
	if got := p.Toggle(); got != original {
		t.Errorf("second Toggle() = %s, want %s", got, original)
	}

	stored, ok, _ := kv.Get(storage.KeyTheme)
	if !ok || Theme(stored) != p.Get() {
		t.Errorf("stored %q, in memory %s", stored, p.Get())
	}
}

func TestToggle_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	kv, err := storage.OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("OpenSQLiteKV failed: %v", err)
	}
	Load(kv, nil).Toggle()
	kv.Close()

	kv, err = storage.OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer kv.Close()

	if got := Load(kv, nil).Get(); got != Light {
		t.Errorf("Get() after reopen = %s, want light", got)
	}
}

func TestToggle_PersistFailure(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.SetErr = errors.New("read-only")
	p := Load(kv, nil)

	if got := p.Toggle(); got != Light {
		t.Errorf("Toggle() = %s, want light even when the write fails", got)
	}
}

func TestSet(t *testing.T) {
	kv := storage.NewMemoryKV()
	p := Load(kv, nil)

	if err := p.Set(Light); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _, _ := kv.Get(storage.KeyTheme); v != "light" {
		t.Errorf("stored = %q", v)
	}
	if err := p.Set("blue"); err == nil {
		t.Error("Set should reject invalid themes")
	}
	if p.Get() != Light {
		t.Error("invalid Set should not change the theme")
	}
}

func TestParse(t *testing.T) {
	if got, err := Parse(" Dark "); err != nil || got != Dark {
		t.Errorf("Parse = %s, %v", got, err)
	}
	if _, err := Parse("auto"); err == nil {
		t.Error("Parse(auto) should fail")
	}
}
