// Package assets bundles the notification icons and installs them on disk
// where notification backends can reference them by path.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

//go:embed icons/*.png
var icons embed.FS

// Icons lists the bundled icons
var Icons = []notify.Icon{notify.IconSuccess, notify.IconFailure}

// DefaultDir returns the per-user icon directory, or "" if the cache
// directory cannot be determined.
func DefaultDir() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cache, "gotestnotify", "icons")
}

// Install writes any missing or outdated icon into dir and returns dir.
func Install(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("icon directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating icon directory: %w", err)
	}

	for _, icon := range Icons {
		data, err := icons.ReadFile("icons/" + string(icon))
		if err != nil {
			return "", fmt.Errorf("reading bundled icon %s: %w", icon, err)
		}

		path := Path(dir, icon)
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing icon %s: %w", path, err)
		}
	}
	return dir, nil
}

// Path returns the location of icon inside dir
func Path(dir string, icon notify.Icon) string {
	return filepath.Join(dir, string(icon))
}
