// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/config"
	"github.com/jeranaias/ava-tui/internal/logging"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/app"
)

func newTUICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen UI (default)",
		Args:  cobra.NoArgs,
		RunE:  o.withEnv(runTUI),
	}
}

// runTUI starts the Bubble Tea program. The config file, when there is one,
// is watched so UI settings apply without a restart.
func runTUI(_ *cobra.Command, _ []string, e *env) error {
	if !IsTTY() || !IsStdoutTTY() {
		return &UsageError{Reason: "the full-screen UI needs a terminal; try 'ava chat --plain'"}
	}

	watcher := startWatcher(e.cfgPath)
	if watcher != nil {
		defer watcher.Close()
	}

	root := app.New(app.Deps{
		Auth:    e.auth,
		Client:  e.client,
		Store:   model.NewStore(),
		Config:  e.cfg,
		Watcher: watcher,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

// startWatcher watches the config file. A missing file or watcher failure
// only disables live reload.
func startWatcher(path string) *config.Watcher {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w, err := config.Watch(path)
	if err != nil {
		logging.Warn("config watch disabled", "path", path, "error", err)
		return nil
	}
	logging.Debug("watching config", "path", w.Path())
	return w
}
