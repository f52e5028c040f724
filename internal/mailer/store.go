package mailer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings are the SMTP relay settings operators can change at
// runtime. They persist to a JSON file so a restart does not lose
// them.
type Settings struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	Secure bool   `json:"secure"`
}

// Configured reports whether the settings are complete enough to
// attempt a connection.
func (s Settings) Configured() bool {
	return s.Host != "" && s.Port > 0 && s.User != "" && s.Pass != ""
}

// Addr returns the host:port dial address.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ConfigStore holds the active transport settings. Reads take a
// snapshot; a dispatch in flight keeps its snapshot even if an
// operator saves new settings mid-batch.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	cur  Settings
}

// NewConfigStore loads settings from path if the file exists. A
// missing file is not an error, the store just starts unconfigured.
func NewConfigStore(path string) (*ConfigStore, error) {
	s := &ConfigStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading mail config: %w", err)
	}
	if err := json.Unmarshal(data, &s.cur); err != nil {
		return nil, fmt.Errorf("parsing mail config: %w", err)
	}
	return s, nil
}

// Snapshot returns a copy of the current settings.
func (s *ConfigStore) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Save replaces the settings and persists them to disk.
func (s *ConfigStore) Save(next Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mail config: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating mail config dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing mail config: %w", err)
	}
	s.cur = next
	return nil
}
