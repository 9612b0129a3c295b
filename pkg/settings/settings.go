// Package settings persists the client's configuration as YAML under the
// user's config directory.
package settings

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings stores the client configuration.
type Settings struct {
	APIBaseURL string `yaml:"api_base_url"`
	NumeroYape string `yaml:"numero_yape"`
	LogLevel   string `yaml:"log_level"`
	DataDir    string `yaml:"data_dir,omitempty"`
}

// DefaultSettings returns default settings.
func DefaultSettings() *Settings {
	return &Settings{
		APIBaseURL: "http://localhost:3000/api",
		NumeroYape: "956379525",
		LogLevel:   "info",
	}
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "ettur")
}

func settingsPath() string {
	return filepath.Join(configDir(), "settings.yaml")
}

// Load loads settings from YAML or returns defaults.
func Load() *Settings {
	s := DefaultSettings()
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		slog.Error("parse settings", "err", err)
		return DefaultSettings()
	}
	if s.APIBaseURL == "" {
		s.APIBaseURL = DefaultSettings().APIBaseURL
	}
	return s
}

// Save writes settings to YAML, creating the config directory if needed.
func (s *Settings) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir(), 0700); err != nil {
		return err
	}
	return os.WriteFile(settingsPath(), data, 0600)
}

// ResolveDataDir returns the directory for the session cache and sealing
// key, creating it if needed. An explicit DataDir wins over the default
// location next to the settings file.
func (s *Settings) ResolveDataDir() (string, error) {
	dir := s.DataDir
	if dir == "" {
		dir = configDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
