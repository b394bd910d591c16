// Package config loads gotestnotify settings from defaults, config files and
// GOTESTNOTIFY_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/gotestnotify/internal/notify"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "GOTESTNOTIFY_"

// DefaultLocalPath is the project config file used when --config is not given
const DefaultLocalPath = ".gotestnotify.yml"

// Configuration represents the gotestnotify configuration
type Configuration struct {
	Enabled         bool          `koanf:"enabled"`
	Notifier        string        `koanf:"notifier" validate:"required,oneof=auto dbus growlnotify notify-send osascript none"`
	AppName         string        `koanf:"app_name" validate:"required"`
	Timeout         time.Duration `koanf:"timeout" validate:"min=0,max=30s"`
	IconDir         string        `koanf:"icon_dir"`
	DisableInCI     bool          `koanf:"disable_in_ci"`
	InteractiveOnly bool          `koanf:"interactive_only"`
	GoCmd           string        `koanf:"go_cmd" validate:"required"`
	TestArgs        string        `koanf:"test_args"`
	Verbose         bool          `koanf:"verbose"`
	Debug           bool          `koanf:"debug"`
}

// NotifyOptions converts the configuration into notifier options
func (c *Configuration) NotifyOptions() notify.Options {
	return notify.Options{
		Backend:         c.Notifier,
		AppName:         c.AppName,
		IconDir:         c.IconDir,
		Timeout:         c.Timeout,
		Enabled:         c.Enabled,
		DisableInCI:     c.DisableInCI,
		InteractiveOnly: c.InteractiveOnly,
	}
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if err := loadFile(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFile(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.IconDir = expandHomePath(cfg.IconDir)

	return &cfg, nil
}

// loadFile merges path into k. A missing file is not an error.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	parser, err := parserFor(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		if err := ValidateYAMLSyntax(path); err != nil {
			return err
		}
	}
	return k.Load(file.Provider(path), parser)
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yml", ".yaml":
		return YAML(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// GlobalConfigPath returns the first existing user config file, or "" if none exists
func GlobalConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yml", "config.yaml", "config.json"} {
		path := filepath.Join(dir, "gotestnotify", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform converts environment variable names to config keys
// Example: GOTESTNOTIFY_APP_NAME -> app_name
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
