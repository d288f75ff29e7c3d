package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the client-side settings read from ~/.subtrack.yaml
type Config struct {
	// Server is the base URL of the subscription API
	Server string `yaml:"server,omitempty"`

	// APIKey is sent on mutating requests when the server requires one
	APIKey string `yaml:"api_key,omitempty"`

	// Limit caps the upcoming renewals card
	Limit int `yaml:"limit,omitempty"`
}

// DefaultConfigPath returns ~/.subtrack.yaml, or the bare filename when the
// home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".subtrack.yaml"
	}
	return filepath.Join(home, ".subtrack.yaml")
}

// LoadConfig reads the config file. A missing file is not an error; it just
// yields the zero config so flags and defaults take over.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}
