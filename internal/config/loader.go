package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDir  = ".config/jotter"
	configFile = "config.json"
	envPrefix  = "JOTTER"
)

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path. If path is empty,
// uses ~/.config/jotter/config.json. A missing file yields defaults.
// Environment variables (JOTTER_STORE_DRIVER, JOTTER_UI_SHOWFOOTER, ...)
// take precedence over the file.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = ConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if filepath.Ext(path) == "" {
				v.SetConfigType("json")
			}
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides apply to all of them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.timeout", d.Store.Timeout)

	v.SetDefault("ui.showFooter", d.UI.ShowFooter)
	v.SetDefault("ui.dateFormat", d.UI.DateFormat)
	v.SetDefault("ui.renderMarkdown", d.UI.RenderMarkdown)
	v.SetDefault("ui.toastDuration", d.UI.ToastDuration)
	v.SetDefault("ui.mouse", d.UI.Mouse)

	v.SetDefault("keymap.overrides", d.Keymap.Overrides)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Dir returns the jotter config directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// DefaultStorePath returns where a driver keeps notes when no path is set.
func DefaultStorePath(driver string) string {
	switch driver {
	case DriverDiskv:
		return filepath.Join(Dir(), "notes")
	case DriverMemory:
		return ""
	}
	return filepath.Join(Dir(), "notes.db")
}
