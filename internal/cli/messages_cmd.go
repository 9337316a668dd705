// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/chat"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

// senderName is the label shown before a message.
func senderName(m model.Message) string {
	if m.IsBot {
		return BotStyle.Render("Ava")
	}
	return UserStyle.Render("You")
}

// printMessage writes one message as a header line and its content.
func printMessage(w io.Writer, m model.Message) {
	header := senderName(m) + " " + DimStyle.Render("["+m.ID+"]")
	if t := m.Time(); !t.IsZero() {
		header += " " + DimStyle.Render(humanize.Time(t))
	}
	fmt.Fprintln(w, header)
	for _, line := range strings.Split(m.Content, "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}

// reveal writes text one rune at a time, interval apart, the way the widget
// types out replies. A zero interval writes it at once.
func reveal(ctx context.Context, w io.Writer, text string, interval time.Duration) error {
	if interval <= 0 {
		_, err := io.WriteString(w, text)
		return err
	}
	for _, r := range text {
		if _, err := io.WriteString(w, string(r)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil
}

// listSorted fetches the conversation in timestamp order.
func listSorted(ctx context.Context, c *api.Client) ([]model.Message, error) {
	msgs, err := c.ListMessages(ctx)
	if err != nil {
		return nil, apiFailure(chat.ErrFetch, err)
	}
	model.SortByTimestamp(msgs)
	return msgs, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func newMessagesCmd(o *options) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"ls"},
		Short:   "List the conversation",
		Args:    cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			return OutputJSON(cmd.OutOrStdout(), jsonOut, "messages", func() (interface{}, error) {
				ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
				defer cancel()
				msgs, err := listSorted(ctx, e.client)
				if err != nil {
					return nil, err
				}
				if !jsonOut {
					if len(msgs) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render("No messages yet."))
					}
					for _, m := range msgs {
						printMessage(cmd.OutOrStdout(), m)
					}
				}
				return msgs, nil
			})
		}),
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func newSendCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>",
		Short: "Send a message and print Ava's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: o.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			content := strings.Join(args, " ")
			if strings.TrimSpace(content) == "" {
				return &UsageError{Reason: "nothing to send"}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			res, err := e.client.SendMessage(ctx, content)
			if err != nil {
				return apiFailure(chat.ErrSend, err)
			}
			printMessage(cmd.OutOrStdout(), res.BotResponse)
			return nil
		}),
	}
}

func newEditCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the content of one of your messages",
		Args:  cobra.MinimumNArgs(2),
		RunE: o.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			id, content := args[0], strings.Join(args[1:], " ")
			if strings.TrimSpace(content) == "" {
				return &UsageError{Reason: chat.ErrEmptyEdit}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			if _, err := e.client.EditMessage(ctx, id, content); err != nil {
				return apiFailure(chat.ErrEdit, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Message "+id+" updated"))
			return nil
		}),
	}
}

func newDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one of your messages",
		Args:    cobra.ExactArgs(1),
		RunE: o.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			if _, err := e.client.DeleteMessage(ctx, args[0]); err != nil {
				return apiFailure(chat.ErrDelete, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Message "+args[0]+" deleted"))
			return nil
		}),
	}
}
