package config

import (
	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"enabled":          true,
		"notifier":         notify.BackendAuto,
		"app_name":         notify.DefaultAppName,
		"timeout":          notify.DefaultTimeout,
		"icon_dir":         "",
		"disable_in_ci":    true,
		"interactive_only": false,
		"go_cmd":           "go",
		"test_args":        "",
		"verbose":          false,
		"debug":            false,
	}
}
