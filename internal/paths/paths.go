// Package paths provides sudo-aware path resolution for tunewatch.
//
// When running with sudo, these functions resolve paths against the original
// user's directories (via SUDO_USER) instead of root's.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// UserHomeDir returns the home directory of the actual user.
// If running with sudo, returns the SUDO_USER's home directory, not root's.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
		// Fall through if lookup fails
	}

	return os.UserHomeDir()
}

// UserConfigDir returns the config directory of the actual user.
// On Linux this is typically ~/.config
func UserConfigDir() (string, error) {
	homeDir, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config"), nil
}

// TunewatchDir returns the tunewatch config directory,
// ~/.config/tunewatch for the actual user.
func TunewatchDir() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tunewatch"), nil
}

// ConfigPath returns the path to the tunewatch config file,
// ~/.config/tunewatch/config.toml for the actual user.
func ConfigPath() (string, error) {
	dir, err := TunewatchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the path to the move-history database,
// ~/.config/tunewatch/history.db for the actual user.
func HistoryPath() (string, error) {
	dir, err := TunewatchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
