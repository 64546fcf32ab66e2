package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigDirName is the name of the config directory
	ConfigDirName = "nowserver"

	// DefaultConfigFileName is the default name for config files
	DefaultConfigFileName = "config.json"

	// DefaultTimeFormat is used when no time format is configured
	DefaultTimeFormat = "2006-01-02 15:04:05 MST"
)

// Config represents the configuration for an MCP server
type Config struct {
	// Timezone is an IANA timezone name (e.g. "Europe/Berlin").
	// Empty means the process-local timezone.
	Timezone string `json:"timezone,omitempty"`

	// TimeFormat is a Go reference-time layout for formatting the
	// current time. Empty means DefaultTimeFormat.
	TimeFormat string `json:"time_format,omitempty"`
}

// GetConfigDir returns the path to the configuration directory for a server
func GetConfigDir(serverName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName, serverName)
	return configDir, nil
}

// GetConfigFilePath returns the path to the configuration file for a server
func GetConfigFilePath(serverName string) (string, error) {
	configDir, err := GetConfigDir(serverName)
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, DefaultConfigFileName), nil
}

// Load loads the configuration for a server. A missing config file is
// not an error; defaults are returned instead.
func Load(serverName string) (*Config, error) {
	configPath, err := GetConfigFilePath(serverName)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration for a server
func Save(serverName string, config *Config) error {
	configDir, err := GetConfigDir(serverName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFileName)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
