package cli

import (
	"errors"
	"fmt"
	"os"

	"stickies/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configPath struct {
	Path string `json:"path"`
}

func (c configPath) Headers() []string { return []string{"PATH"} }

func (c configPath) Rows() [][]string { return [][]string{{c.Path}} }

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (defaults filled in) as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Dir != "" {
				cfg.DataDir = app.Dir
			}
			if app.Board != "" {
				cfg.Board = app.Board
			}
			if app.LogFile != "" {
				cfg.LogFile = app.LogFile
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("config already exists: %s (use --force to overwrite)", path))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}

			// Only the layout knobs are written; paths keep following the config dir.
			padding, reserve := store.DefaultPadding, store.DefaultHeaderReserve
			cfg := &store.GlobalConfig{
				Board:         store.DefaultBoardKey,
				LogLevel:      store.DefaultLogLevel,
				Note:          store.NoteConfig{Width: store.DefaultNoteWidth, Height: store.DefaultNoteHeight},
				Padding:       &padding,
				HeaderReserve: &reserve,
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, fmt.Errorf("write config: %w", err))
			}
			return writeOut(cmd, app, configPath{Path: path})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
