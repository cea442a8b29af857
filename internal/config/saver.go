package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Store  saveStoreConfig `json:"store"`
	UI     saveUIConfig    `json:"ui"`
	Keymap KeymapConfig    `json:"keymap"`
	Log    LogConfig       `json:"log"`
}

type saveStoreConfig struct {
	Driver  string `json:"driver"`
	Path    string `json:"path,omitempty"`
	Timeout string `json:"timeout"`
}

type saveUIConfig struct {
	ShowFooter     bool   `json:"showFooter"`
	DateFormat     string `json:"dateFormat"`
	RenderMarkdown bool   `json:"renderMarkdown"`
	ToastDuration  string `json:"toastDuration"`
	Mouse          bool   `json:"mouse"`
}

func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Store: saveStoreConfig{
			Driver:  cfg.Store.Driver,
			Path:    cfg.Store.Path,
			Timeout: cfg.Store.Timeout.String(),
		},
		UI: saveUIConfig{
			ShowFooter:     cfg.UI.ShowFooter,
			DateFormat:     cfg.UI.DateFormat,
			RenderMarkdown: cfg.UI.RenderMarkdown,
			ToastDuration:  cfg.UI.ToastDuration.String(),
			Mouse:          cfg.UI.Mouse,
		},
		Keymap: cfg.Keymap,
		Log:    cfg.Log,
	}
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as indented JSON, creating parent directories. The file
// is written to a temp file and renamed into place.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(toSaveConfig(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
