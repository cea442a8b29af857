// Package store opens the note store selected by configuration.
package store

import (
	"fmt"
	"log/slog"

	"github.com/marcus/jotter/internal/config"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/store/diskstore"
	"github.com/marcus/jotter/internal/store/memory"
	"github.com/marcus/jotter/internal/store/sqlite"
)

// Open returns the store for cfg.Driver. Callers should Close it when it
// implements note.Closer.
func Open(cfg config.StoreConfig) (note.Store, error) {
	slog.Debug("opening store", "driver", cfg.Driver, "path", cfg.Path)

	switch cfg.Driver {
	case config.DriverSQLite, config.DriverSQLitePureGo, "":
		driver := cfg.Driver
		if driver == "" {
			driver = config.DriverSQLite
		}
		s, err := sqlite.Open(cfg.Path, sqlite.Options{Driver: driver})
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.DriverDiskv:
		if cfg.Path == "" {
			return nil, fmt.Errorf("diskv store needs a path")
		}
		return diskstore.Open(cfg.Path), nil
	case config.DriverMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Close closes s if it holds resources.
func Close(s note.Store) error {
	if c, ok := s.(note.Closer); ok {
		return c.Close()
	}
	return nil
}
