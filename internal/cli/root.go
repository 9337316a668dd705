// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/auth"
	"github.com/jeranaias/ava-tui/internal/config"
	"github.com/jeranaias/ava-tui/internal/logging"
	"github.com/jeranaias/ava-tui/internal/session"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL OPTIONS
// =============================================================================

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	apiURL     string
	logLevel   string
}

// loadConfig resolves configuration: .env, then the config file (--config or
// the default location), then flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, err
		}
		if err != nil {
			// Defaults are still usable; say why the file was ignored.
			fmt.Fprintln(os.Stderr, styles.RenderWarning(fmt.Sprintf("config: %v (using defaults)", err)))
		}
	}

	if o.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(o.apiURL), "/")
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// path returns the config file commands read and write.
func (o *options) path() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ActivePath()
}

// =============================================================================
// RUNTIME ENVIRONMENT
// =============================================================================

// env is everything a command needs to talk to the API.
type env struct {
	cfg     *config.Config
	cfgPath string
	client  *api.Client
	auth    *auth.Manager
	jar     *session.Jar

	store     *session.Store
	logCloser io.Closer
}

// connect loads config, starts logging and opens the session jar.
func (o *options) connect() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	if e.cfgPath, err = o.path(); err != nil {
		return nil, err
	}
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	if e.logCloser, err = logging.Init(logging.Options{Level: cfg.Log.Level, Path: logPath}); err != nil {
		return nil, err
	}

	if cfg.API.PersistSession {
		dbPath, err := cfg.SessionDBPath()
		if err != nil {
			e.Close()
			return nil, err
		}
		if e.store, err = session.Open(dbPath, dbPath+".key"); err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
	}
	if e.jar, err = session.NewJar(e.store, cfg.API.BaseURL); err != nil {
		e.Close()
		return nil, err
	}

	e.client = api.New(cfg.API.BaseURL, e.jar).
		WithTimeout(cfg.API.Timeout()).
		WithRateLimit(cfg.API.MaxRPS)
	e.auth = auth.NewManager(e.client, auth.WithCookies(e.jar))

	logging.Debug("cli environment ready",
		"api", cfg.API.BaseURL, "persist_session", cfg.API.PersistSession)
	return e, nil
}

// Close releases the session store and the log file.
func (e *env) Close() error {
	var errs []error
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	if e.logCloser != nil {
		errs = append(errs, e.logCloser.Close())
	}
	return errors.Join(errs...)
}

// withEnv adapts a command body that needs an env to cobra's RunE.
func (o *options) withEnv(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := o.connect()
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, args, e)
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the ava command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "ava",
		Short: "Terminal client for the Ava chat assistant",
		Long: `ava talks to the Ava chat API from the terminal.

Run it without arguments for the full-screen UI, or use the subcommands
for line-mode chat and scripting.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          o.withEnv(runTUI),
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file path (default ~/.ava/config.toml)")
	root.PersistentFlags().StringVar(&o.apiURL, "api-url", "", "Ava API base URL (overrides config and AVA_API_URL)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newTUICmd(o),
		newChatCmd(o),
		newLoginCmd(o),
		newRegisterCmd(o),
		newLogoutCmd(o),
		newWhoamiCmd(o),
		newMessagesCmd(o),
		newSendCmd(o),
		newEditCmd(o),
		newDeleteCmd(o),
		newExportCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
		newFakeServerCmd(),
	)
	return root
}

// Execute runs the command line and exits with the code for any error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(GetExitCode(err))
	}
}
