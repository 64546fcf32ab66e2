// Package utils holds small shared helpers for the CLI surface.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsConfigured checks if a server has a saved configuration
func IsConfigured(serverName string) bool {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return false
	}

	configPath := filepath.Join(homeDir, ".config", "nowserver", serverName, "config.json")
	_, err = os.Stat(configPath)
	return err == nil
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// PrintInfo prints an info message to stdout
func PrintInfo(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
