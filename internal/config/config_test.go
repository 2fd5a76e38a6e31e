package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManagerWithKey(path, testKey())
	if err != nil {
		t.Fatalf("NewManagerWithKey: %v", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.Get()
	if cfg.Transcribe.ModelName != "whisper-1" {
		t.Errorf("default model = %q", cfg.Transcribe.ModelName)
	}
	if cfg.Intake.Concurrency <= 0 {
		t.Errorf("default concurrency = %d", cfg.Intake.Concurrency)
	}

	// The default file must have been written.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestSaveLoad_EncryptsAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManagerWithKey(path, testKey())
	if err != nil {
		t.Fatalf("NewManagerWithKey: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	m.config.Transcribe.APIKey = "sk-secret-key"
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "sk-secret-key") {
		t.Error("API key stored in plaintext")
	}
	if !strings.Contains(string(raw), `"api_key": "enc:`) {
		t.Error("API key not marked as encrypted")
	}

	// A fresh manager with the same key decrypts it back.
	m2, err := NewManagerWithKey(path, testKey())
	if err != nil {
		t.Fatal(err)
	}
	if err := m2.Load(); err != nil {
		t.Fatalf("Load (reload): %v", err)
	}
	if got := m2.Get().Transcribe.APIKey; got != "sk-secret-key" {
		t.Errorf("reloaded API key = %q", got)
	}
}

func TestLoad_PlaintextKeyAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	manual := `{"transcribe": {"api_key": "hand-edited-key"}}`
	if err := os.WriteFile(path, []byte(manual), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := NewManagerWithKey(path, testKey())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.Get()
	if cfg.Transcribe.APIKey != "hand-edited-key" {
		t.Errorf("API key = %q", cfg.Transcribe.APIKey)
	}
	// Unset fields fall back to defaults.
	if cfg.Transcribe.Endpoint == "" || cfg.Store.DBPath == "" {
		t.Error("defaults not applied to partial config")
	}
}
