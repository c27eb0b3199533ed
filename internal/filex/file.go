// Package filex locates and prepares directories for client-side state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDir returns the per-user directory where the client keeps its local
// state (token, cached profile), creating it if needed. The location follows
// os.UserConfigDir, so it respects XDG_CONFIG_HOME on Linux.
func StateDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}

	dir := filepath.Join(base, appName)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
