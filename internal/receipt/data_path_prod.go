//go:build prod

package receipt

import (
	"log"
	"os"
	"path/filepath"
)

// GetDefaultDataDir returns the receipt data directory for production mode.
// In production the log is stored under the user's config directory.
func GetDefaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Warning: Failed to get user config dir: %v. Using fallback.", err)
		return "data"
	}

	dataDir := filepath.Join(configDir, "snapledger", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Failed to create data dir: %v. Using fallback.", err)
		return "data"
	}
	return dataDir
}

// GetDefaultExampleDir returns the read-only few-shot example directory.
func GetDefaultExampleDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Warning: Failed to get user config dir: %v. Using fallback.", err)
		return "example"
	}
	return filepath.Join(configDir, "snapledger", "example")
}
