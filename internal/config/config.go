package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.fitadmin)
	ConfigDir string

	// DatabasePath is the SQLite database file for the exchange history
	DatabasePath string

	// SessionFile is the cached authentication state
	SessionFile string

	// OptionsFile is the global options file
	OptionsFile string
)

// localOptionsFiles are checked in the working directory before the global file
var localOptionsFiles = []string{"fitadmin.yaml", "fitadmin.yml", "fitadmin.json", "fitadmin.jsonc"}

// Initialize sets up the configuration directories and files
// It creates ~/.fitadmin/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".fitadmin"))
}

// InitializeAt sets up the configuration rooted at dir
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "fitadmin.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	OptionsFile = filepath.Join(ConfigDir, "config.yaml")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		if err := os.WriteFile(SessionFile, []byte(`{"token":{}}`), 0600); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	// Write the defaults so they are discoverable and editable
	if _, err := os.Stat(OptionsFile); os.IsNotExist(err) {
		if err := SaveOptions(Default(), OptionsFile); err != nil {
			return fmt.Errorf("failed to create options file: %w", err)
		}
	}

	return nil
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	if _, err := os.Stat(".session.json"); err == nil {
		return ".session.json"
	}
	return SessionFile
}

// GetOptionsFilePath returns the options file path (local or global)
func GetOptionsFilePath() string {
	for _, name := range localOptionsFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return OptionsFile
}
