//go:build !prod

package receipt

// GetDefaultDataDir returns the receipt data directory for development
// mode. In dev mode the log lives in the project root for easy inspection.
func GetDefaultDataDir() string {
	return "data"
}

// GetDefaultExampleDir returns the read-only few-shot example directory.
func GetDefaultExampleDir() string {
	return "example"
}
