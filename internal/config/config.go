package config

import "time"

// Store drivers.
const (
	DriverSQLite       = "sqlite3"
	DriverSQLitePureGo = "sqlite"
	DriverDiskv        = "diskv"
	DriverMemory       = "memory"
)

// Config is the root configuration structure.
type Config struct {
	Store  StoreConfig  `json:"store" mapstructure:"store"`
	UI     UIConfig     `json:"ui" mapstructure:"ui"`
	Keymap KeymapConfig `json:"keymap" mapstructure:"keymap"`
	Log    LogConfig    `json:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the note store.
type StoreConfig struct {
	Driver  string        `json:"driver" mapstructure:"driver"`
	Path    string        `json:"path,omitempty" mapstructure:"path"` // file for sqlite, directory for diskv; empty means under Dir()
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`     // per store call
}

// UIConfig configures UI behavior.
type UIConfig struct {
	ShowFooter     bool          `json:"showFooter" mapstructure:"showFooter"`
	DateFormat     string        `json:"dateFormat" mapstructure:"dateFormat"` // Go layout or "relative"
	RenderMarkdown bool          `json:"renderMarkdown" mapstructure:"renderMarkdown"`
	ToastDuration  time.Duration `json:"toastDuration" mapstructure:"toastDuration"`
	Mouse          bool          `json:"mouse" mapstructure:"mouse"`
}

// KeymapConfig holds key binding overrides, command name to key.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" mapstructure:"overrides"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file,omitempty" mapstructure:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:  DriverSQLite,
			Timeout: 10 * time.Second,
		},
		UI: UIConfig{
			ShowFooter:     true,
			DateFormat:     "Jan 2, 2006 15:04",
			RenderMarkdown: true,
			ToastDuration:  2 * time.Second,
			Mouse:          true,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate normalizes out-of-range values and fills derived defaults.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverSQLitePureGo, DriverDiskv, DriverMemory:
	default:
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Timeout <= 0 {
		c.Store.Timeout = 10 * time.Second
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath(c.Store.Driver)
	}
	c.Store.Path = ExpandPath(c.Store.Path)
	c.Log.File = ExpandPath(c.Log.File)

	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = 2 * time.Second
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = "Jan 2, 2006 15:04"
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
