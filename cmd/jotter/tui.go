package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/jotter/internal/app"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/state"
)

// runTUI opens the store and runs the interactive list until the user quits.
func (c *cli) runTUI(ctx context.Context) error {
	logger, closeLog, err := c.fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Load persistent state (ignore errors - state is optional)
	if err := state.Init(); err != nil {
		logger.Warn("load state", "err", err)
	}

	return c.withStore(func(s note.Store) error {
		logger.Info("starting", "driver", c.cfg.Store.Driver, "path", c.cfg.Store.Path)

		model := app.New(c.cfg, s, app.WithLogger(logger))
		opts := []tea.ProgramOption{tea.WithAltScreen()}
		if ctx != nil {
			opts = append(opts, tea.WithContext(ctx))
		}
		if c.cfg.UI.Mouse {
			opts = append(opts, tea.WithMouseCellMotion())
		}

		final, err := tea.NewProgram(model, opts...).Run()
		if m, ok := final.(app.Model); ok {
			m.Shutdown()
		}
		if err != nil {
			return fmt.Errorf("run application: %w", err)
		}
		return nil
	})
}
