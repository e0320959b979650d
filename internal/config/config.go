// Package config persists console settings to ~/.fitdesk/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fitdesk/fitdesk/internal/errors"
)

// Defaults applied when the config file is missing or a field is zero.
const (
	DefaultConversationPageSize = 20
	DefaultMessagePageSize      = 30
	DefaultSearchDebounceMs     = 700
)

// Config holds the application configuration
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token,omitempty"` // Admin API token; may also come from FITDESK_TOKEN

	ConversationPageSize int `json:"conversation_page_size,omitempty"`
	MessagePageSize      int `json:"message_page_size,omitempty"`
	SearchDebounceMs     int `json:"search_debounce_ms,omitempty"`

	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notifications for new unseen conversations

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fitdesk"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path. Split out from Load so
// tests can point at a temp directory.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Environment token overrides the file so the token never has to be
	// written to disk.
	if env := os.Getenv("FITDESK_TOKEN"); env != "" {
		cfg.Token = env
	}

	return cfg, nil
}

// applyDefaults fills zero-valued fields. Not thread-safe; only called during
// single-threaded initialization before the Config is shared.
func (c *Config) applyDefaults() {
	if c.ConversationPageSize <= 0 {
		c.ConversationPageSize = DefaultConversationPageSize
	}
	if c.MessagePageSize <= 0 {
		c.MessagePageSize = DefaultMessagePageSize
	}
	if c.SearchDebounceMs <= 0 {
		c.SearchDebounceMs = DefaultSearchDebounceMs
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ConversationPageSize <= 0 {
		return errors.ConfigInvalid("conversation_page_size must be positive")
	}
	if c.MessagePageSize <= 0 {
		return errors.ConfigInvalid("message_page_size must be positive")
	}
	if c.SearchDebounceMs < 0 {
		return errors.ConfigInvalid("search_debounce_ms must not be negative")
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// GetServerURL returns the backend base URL
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerURL
}

// SetServerURL sets the backend base URL
func (c *Config) SetServerURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = url
}

// GetToken returns the admin API token
func (c *Config) GetToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Token
}

// SetToken sets the admin API token
func (c *Config) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Token = token
}

// GetConversationPageSize returns the conversation list page size
func (c *Config) GetConversationPageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ConversationPageSize
}

// GetMessagePageSize returns the message feed page size
func (c *Config) GetMessagePageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MessagePageSize
}

// GetSearchDebounceMs returns the search debounce interval in milliseconds
func (c *Config) GetSearchDebounceMs() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SearchDebounceMs
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
