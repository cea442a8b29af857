package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/store/sqlite"
	"github.com/marcus/jotter/internal/ui"
)

// Output formats for list.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	nowFunc = time.Now
)

func (c *cli) newListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all notes, most recently touched first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}

			return c.withStore(func(s note.Store) error {
				ctx, cancel := c.storeContext(cmd.Context())
				defer cancel()
				notes, err := s.List(ctx)
				if err != nil {
					return fmt.Errorf("list notes: %w", err)
				}
				return c.printNotes(notes, output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func (c *cli) printNotes(notes []note.Note, output string) error {
	if notes == nil {
		notes = []note.Note{}
	}
	switch output {
	case outputJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(notes)
	case outputYAML:
		enc := yaml.NewEncoder(c.out)
		defer enc.Close()
		return enc.Encode(notes)
	}

	if len(notes) == 0 {
		c.printf("No notes yet. Add one with: jotter add --title ... --description ...\n")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold("ID"), bold("TITLE"), bold("CATEGORY"), bold("CREATED"))
	for _, n := range notes {
		tbl.AddRow(n.ID, ui.FirstLine(n.Title), n.Category, note.FormatDate(n.CreatedAt, c.cfg.UI.DateFormat, nowFunc()))
	}
	c.printf("%s\n", tbl)
	return nil
}

func (c *cli) newAddCmd() *cobra.Command {
	var (
		f        note.Fields
		category string
		colorHex string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Category = note.Category(category)
			f.Color = note.Color(colorHex)
			f = f.Trimmed()
			if err := f.Validate(); err != nil {
				return fmt.Errorf("invalid note: %s", note.Message(err))
			}

			return c.withStore(func(s note.Store) error {
				ctx, cancel := c.storeContext(cmd.Context())
				defer cancel()
				n, err := s.Create(ctx, f)
				if err != nil {
					return fmt.Errorf("create note: %s", note.Message(err))
				}
				c.printf("Created %s\n", n.ID)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.Title, "title", "", "note title (required)")
	flags.StringVar(&f.Description, "description", "", "note description (required)")
	flags.StringVar(&category, "category", string(note.Categories[0]), "one of Personal, Work, Ideas, Todo, Other")
	flags.StringVar(&colorHex, "color", string(note.DefaultColor), "accent color from the palette")
	return cmd
}

func (c *cli) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Bring back a deleted note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(s note.Store) error {
				r, ok := s.(note.Restorer)
				if !ok {
					return capability(c.cfg.Store.Driver, "restore")
				}
				ctx, cancel := c.storeContext(cmd.Context())
				defer cancel()
				n, err := r.Restore(ctx, args[0])
				if err != nil {
					return fmt.Errorf("restore %s: %s", args[0], note.Message(err))
				}
				c.printf("Restored %s (%s)\n", n.ID, n.Title)
				return nil
			})
		},
	}
}

func (c *cli) newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Permanently erase deleted notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(s note.Store) error {
				p, ok := s.(note.Purger)
				if !ok {
					return capability(c.cfg.Store.Driver, "purge")
				}
				ctx, cancel := c.storeContext(cmd.Context())
				defer cancel()
				n, err := p.Purge(ctx)
				if err != nil {
					return fmt.Errorf("purge: %w", err)
				}
				c.printf("Purged %d deleted %s\n", n, pluralize(n, "note", "notes"))
				return nil
			})
		},
	}
}

func (c *cli) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the recorded changes of a note (sqlite stores only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(s note.Store) error {
				db, ok := s.(*sqlite.Store)
				if !ok {
					return capability(c.cfg.Store.Driver, "history")
				}
				ctx, cancel := c.storeContext(cmd.Context())
				defer cancel()
				actions, err := db.Actions(ctx, args[0])
				if err != nil {
					return err
				}
				if len(actions) == 0 {
					return fmt.Errorf("no history for %s", args[0])
				}

				tbl := uitable.New()
				tbl.Separator = "  "
				tbl.MaxColWidth = 60
				tbl.AddRow(bold("#"), bold("ACTION"), bold("TITLE"))
				for i, a := range actions {
					tbl.AddRow(i+1, actionColor(a.Type)(string(a.Type)), actionTitle(a))
				}
				c.printf("%s\n", tbl)
				return nil
			})
		},
	}
}

func actionColor(t sqlite.ActionType) func(a ...any) string {
	switch t {
	case sqlite.ActionCreate, sqlite.ActionRestore:
		return color.New(color.FgGreen).SprintFunc()
	case sqlite.ActionDelete:
		return color.New(color.FgRed).SprintFunc()
	}
	return color.New(color.FgYellow).SprintFunc()
}

// actionTitle is the note title after the action, or before it for deletes.
func actionTitle(a sqlite.Action) string {
	data := a.New
	if data == "" {
		data = a.Previous
	}
	var n note.Note
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return ""
	}
	return n.Title
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
