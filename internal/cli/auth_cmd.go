// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/auth"
	"github.com/jeranaias/ava-tui/internal/ui/login"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (prompted when omitted)")
}

// resolve fills missing values from prompts and validates both fields the
// same way the login form does, before any request is made.
func (f *credentialFlags) resolve(cmd *cobra.Command) (string, string, error) {
	email := f.email
	if email == "" {
		if !IsTTY() {
			return "", "", &UsageError{Reason: "--email is required"}
		}
		fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &email); err != nil {
			return "", "", &UsageError{Reason: "no email entered"}
		}
	}
	password := f.password
	if password == "" {
		var err error
		if password, err = readPassword("Password: "); err != nil {
			return "", "", err
		}
	}

	if fe := auth.ValidateCredentials(email, password); !fe.OK() {
		var reasons []string
		for _, r := range []string{fe.Email, fe.Password} {
			if r != "" {
				reasons = append(reasons, r)
			}
		}
		return "", "", &UsageError{Reason: strings.Join(reasons, " ")}
	}
	return auth.NormalizeEmail(email), password, nil
}

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

func newLoginCmd(o *options) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			if err := e.auth.Login(ctx, email, password); err != nil {
				return fmt.Errorf("login failed: %s: %w", api.ErrorDetail(err, login.MsgGenericFail), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Logged in as "+email))
			if !e.jar.Persistent() {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.RenderWarning("api.persist_session is off; the session ends with this process"))
			}
			return nil
		}),
	}
	creds.bind(cmd)
	return cmd
}

func newRegisterCmd(o *options) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			if err := e.auth.Register(ctx, email, password); err != nil {
				return fmt.Errorf("registration failed: %s: %w", api.ErrorDetail(err, login.MsgGenericFail), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess(login.MsgRegistered))
			return nil
		}),
	}
	creds.bind(cmd)
	return cmd
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			// The local session is gone either way; a server error is only reported.
			if err := e.auth.Logout(ctx); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(),
					styles.RenderWarning("server logout failed: "+api.ErrorDetail(err, err.Error())))
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Logged out"))
			return nil
		}),
	}
}

func newWhoamiCmd(o *options) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			return OutputJSON(cmd.OutOrStdout(), jsonOut, "whoami", func() (interface{}, error) {
				ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
				defer cancel()
				u, err := e.auth.Check(ctx)
				if err != nil {
					return nil, requireSession(err)
				}
				if u == nil {
					return nil, errors.New("empty user response")
				}
				if !jsonOut {
					w := cmd.OutOrStdout()
					fmt.Fprintln(w, RenderLabel("Email")+ValueStyle.Render(u.Email))
					fmt.Fprintln(w, RenderLabel("ID")+DimStyle.Render(u.ID))
					fmt.Fprintln(w, RenderLabel("API")+DimStyle.Render(e.cfg.API.BaseURL))
				}
				return map[string]string{"id": u.ID, "email": u.Email}, nil
			})
		}),
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
