package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/jotter/internal/config"
)

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configFile()
			if path == "" {
				return fmt.Errorf("cannot determine config path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveTo(path, config.Default()); err != nil {
				return err
			}
			c.printf("Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file and store locations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.printf("config: %s\n", c.configFile())
			c.printf("store:  %s (%s)\n", c.cfg.Store.Path, c.cfg.Store.Driver)
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

// configFile is --config or the default location.
func (c *cli) configFile() string {
	if c.configPath != "" {
		return config.ExpandPath(c.configPath)
	}
	return config.ConfigPath()
}
