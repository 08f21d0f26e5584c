// Package fs provides filesystem-backed caching for evaluation results.
package fs

import (
	"os"
	"path/filepath"
)

// DefaultCacheDir returns the default cache directory for diffmage.
// Uses XDG_CACHE_HOME if set, otherwise falls back to ~/.cache/diffmage,
// or system temp directory if home is unavailable.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "diffmage")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "diffmage")
	}
	return filepath.Join(home, ".cache", "diffmage")
}
