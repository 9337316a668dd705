// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/fakeapi"
	"github.com/jeranaias/ava-tui/internal/logging"
)

// newFakeServerCmd serves the in-process fake API for local development.
func newFakeServerCmd() *cobra.Command {
	var addr string
	var users []string
	cmd := &cobra.Command{
		Use:    "fake-server",
		Short:  "Run a local fake of the Ava API",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.Init(logging.Options{Level: "debug", Writer: cmd.ErrOrStderr()})

			srv := fakeapi.New()
			for _, u := range users {
				email, password, ok := strings.Cut(u, ":")
				if !ok {
					return &UsageError{Reason: "--user wants email:password, got " + u}
				}
				if err := srv.AddUser(email, password); err != nil {
					return err
				}
			}

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.ListenAndServe() }()
			fmt.Fprintf(cmd.OutOrStdout(), "fake Ava API listening on %s\n", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringArrayVar(&users, "user", nil, "seed an account as email:password (repeatable)")
	return cmd
}
