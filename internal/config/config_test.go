package config

import (
	"os"
	"path/filepath"
	"testing"
)

// mockHomeDir is a helper function to temporarily set the HOME environment variable
func mockHomeDir(t *testing.T) (string, func()) {
	tempDir, err := os.MkdirTemp("", "nowserver-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)

	return tempDir, func() {
		os.Setenv("HOME", origHome)
		os.RemoveAll(tempDir)
	}
}

func TestGetConfigDir(t *testing.T) {
	serverName := "testserver"
	configDir, err := GetConfigDir(serverName)
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}

	// Check that the path contains the config dir name
	if filepath.Base(filepath.Dir(configDir)) != ConfigDirName {
		t.Errorf("Expected config dir to contain %s, got %s", ConfigDirName, configDir)
	}

	// Check that the path ends with the server name
	if filepath.Base(configDir) != serverName {
		t.Errorf("Expected config dir to end with %s, got %s", serverName, configDir)
	}
}

func TestGetConfigFilePath(t *testing.T) {
	serverName := "testserver"
	configPath, err := GetConfigFilePath(serverName)
	if err != nil {
		t.Fatalf("GetConfigFilePath failed: %v", err)
	}

	if filepath.Base(filepath.Dir(configPath)) != serverName {
		t.Errorf("Expected config path to contain %s, got %s", serverName, configPath)
	}

	if filepath.Base(configPath) != DefaultConfigFileName {
		t.Errorf("Expected config path to end with %s, got %s", DefaultConfigFileName, configPath)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	_, cleanup := mockHomeDir(t)
	defer cleanup()

	cfg, err := Load("testserver")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timezone != "" || cfg.TimeFormat != "" {
		t.Errorf("Expected default config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	_, cleanup := mockHomeDir(t)
	defer cleanup()

	saved := &Config{
		Timezone:   "Europe/Berlin",
		TimeFormat: "2006-01-02 15:04",
	}
	if err := Save("testserver", saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load("testserver")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Timezone != saved.Timezone {
		t.Errorf("Expected timezone %q, got %q", saved.Timezone, loaded.Timezone)
	}
	if loaded.TimeFormat != saved.TimeFormat {
		t.Errorf("Expected time format %q, got %q", saved.TimeFormat, loaded.TimeFormat)
	}
}
