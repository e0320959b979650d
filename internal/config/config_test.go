package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GetConversationPageSize() != DefaultConversationPageSize {
		t.Errorf("ConversationPageSize = %d, want %d", cfg.GetConversationPageSize(), DefaultConversationPageSize)
	}
	if cfg.GetMessagePageSize() != DefaultMessagePageSize {
		t.Errorf("MessagePageSize = %d, want %d", cfg.GetMessagePageSize(), DefaultMessagePageSize)
	}
	if cfg.GetSearchDebounceMs() != DefaultSearchDebounceMs {
		t.Errorf("SearchDebounceMs = %d, want %d", cfg.GetSearchDebounceMs(), DefaultSearchDebounceMs)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	cfg.SetServerURL("https://api.fitdesk.example")
	cfg.SetTheme("nord")
	cfg.SetNotificationsEnabled(true)

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if reloaded.GetServerURL() != "https://api.fitdesk.example" {
		t.Errorf("ServerURL = %q", reloaded.GetServerURL())
	}
	if reloaded.GetTheme() != "nord" {
		t.Errorf("Theme = %q", reloaded.GetTheme())
	}
	if !reloaded.GetNotificationsEnabled() {
		t.Error("NotificationsEnabled = false, want true")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadFrom_EnvTokenOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server_url":"https://x","token":"from-file"}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FITDESK_TOKEN", "from-env")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.GetToken() != "from-env" {
		t.Errorf("Token = %q, want env override", cfg.GetToken())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero conversation page size", func(c *Config) { c.ConversationPageSize = 0 }, true},
		{"negative message page size", func(c *Config) { c.MessagePageSize = -1 }, true},
		{"negative debounce", func(c *Config) { c.SearchDebounceMs = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
