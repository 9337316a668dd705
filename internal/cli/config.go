// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command: config [subcommand]
//
// Subcommands:
//
//	show (default)      Display the effective configuration
//	path                Show the configuration file path
//	init [--force]      Write a default configuration file
//	get <key>           Print one value (dot notation)
//	set <key> <value>   Change one value, validate, and save
//
// Examples:
//
//	ava config set ui.typing_interval_ms 15
//	ava config set api.base_url https://ava.example.com
//	ava config get ui.theme
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/config"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, o, false)
		},
	}

	var jsonOut bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration (file, env and flags applied)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, o, jsonOut)
		},
	}
	show.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	path := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := o.path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := o.path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return &UsageError{Reason: p + " already exists (use --force to overwrite)"}
			}
			if err := saveConfigFile(config.Default(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Wrote "+p))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return &UsageError{Reason: err.Error()}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value and save it",
		Long: `Change one configuration value and save it.

Only the file is edited: environment overrides are not written back.
Keys: ` + strings.Join(config.GetAllKeys(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.path()
			if err != nil {
				return err
			}
			cfg, err := readConfigFile(p)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return &UsageError{Reason: err.Error()}
			}
			// Blank fields stay blank in the file so later defaults still apply.
			check := cfg.Clone()
			check.SetDefaults()
			if err := check.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := saveConfigFile(cfg, p); err != nil {
				return err
			}
			v, _ := cfg.Get(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess(fmt.Sprintf("%s = %v", args[0], v)))
			return nil
		},
	}

	cmd.AddCommand(show, path, initCmd, get, set)
	return cmd
}

func showConfig(cmd *cobra.Command, o *options, jsonOut bool) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if jsonOut {
		return NewJSONResponse("config show", cfg).Write(cmd.OutOrStdout())
	}
	if p, err := o.path(); err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render("# "+p))
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
}

// readConfigFile decodes the file alone, without environment overrides, so
// that saving it back does not capture them. A missing file yields defaults.
func readConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	var err error
	if strings.HasSuffix(path, ".json") {
		err = config.LoadJSON(cfg, path)
	} else {
		err = config.LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func saveConfigFile(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
