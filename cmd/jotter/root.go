package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcus/jotter/internal/config"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/store"
)

// cli carries the persistent flags and what they resolve to.
type cli struct {
	configPath  string
	storeDriver string
	debug       bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "jotter",
		Short: "A terminal notebook for short notes",
		Long: `jotter keeps short notes with a title, a description, a category and a color.
Run it without arguments to open the interactive list.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config file (default ~/.config/jotter/config.json)")
	flags.StringVar(&c.storeDriver, "store", "", "store driver override: sqlite3, sqlite, diskv or memory")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		c.newListCmd(),
		c.newAddCmd(),
		c.newRestoreCmd(),
		c.newPurgeCmd(),
		c.newHistoryCmd(),
		c.newConfigCmd(),
		c.newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and installs the
// stderr logger used by the subcommands. The TUI swaps it for a file logger.
func (c *cli) setup() error {
	cfg, err := config.LoadFrom(c.configPath)
	if err != nil {
		return err
	}
	if c.storeDriver != "" {
		if err := overrideDriver(cfg, c.storeDriver); err != nil {
			return err
		}
	}
	c.cfg = cfg

	c.logger = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{
		Level: c.logLevel(),
	}))
	slog.SetDefault(c.logger)
	return nil
}

// overrideDriver switches the store driver. A path that was only the old
// driver's default follows the new driver.
func overrideDriver(cfg *config.Config, driver string) error {
	switch driver {
	case config.DriverSQLite, config.DriverSQLitePureGo, config.DriverDiskv, config.DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", driver)
	}
	if cfg.Store.Path == config.DefaultStorePath(cfg.Store.Driver) {
		cfg.Store.Path = ""
	}
	cfg.Store.Driver = driver
	return cfg.Validate()
}

func (c *cli) logLevel() slog.Level {
	if c.debug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.cfg.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// fileLogger opens the debug log for the TUI, which owns the terminal.
// Without a log file and --debug, logs are discarded.
func (c *cli) fileLogger() (*slog.Logger, func(), error) {
	path := c.cfg.Log.File
	if path == "" && c.debug {
		path = filepath.Join(config.Dir(), "debug.log")
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: c.logLevel()}))
	return logger, func() { _ = f.Close() }, nil
}

// withStore opens the configured store, runs fn and closes it.
func (c *cli) withStore(fn func(note.Store) error) error {
	s, err := store.Open(c.cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(s); err != nil {
			c.logger.Warn("close store", "err", err)
		}
	}()
	return fn(s)
}

// storeContext bounds one CLI store call.
func (c *cli) storeContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, c.cfg.Store.Timeout)
}

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// capability reports which optional store interface is missing.
func capability(driver, what string) error {
	return fmt.Errorf("the %s store does not support %s", driver, what)
}
