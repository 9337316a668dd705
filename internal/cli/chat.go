// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/config"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/chat"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input. *ChatCLI implements it with liner.
type LineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for the plain chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI whose history lives in the config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// ChatSession is one line-mode conversation.
type ChatSession struct {
	Client   chat.Client
	Input    LineReader
	Out      io.Writer
	Interval time.Duration
	Timeout  time.Duration

	sent int
}

// errQuit ends the loop from a slash command.
var errQuit = errors.New("quit")

const chatHelp = `Commands:
  /list               show the conversation
  /edit <id> <text>   replace one of your messages
  /delete <id>        delete one of your messages
  /help               show this help
  /quit               leave (also: exit, quit, Ctrl+D)`

// Run reads lines until EOF or /quit. Request failures are printed and the
// loop continues.
func (s *ChatSession) Run(ctx context.Context) error {
	fmt.Fprintln(s.Out, TitleStyle.Render(chat.WelcomeTitle)+" "+DimStyle.Render(chat.WelcomeText+". Type /help for commands."))

	for {
		input, err := s.Input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and a closed stdin all just end the session.
			fmt.Fprintln(s.Out)
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		err = s.handleLine(ctx, input)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			fmt.Fprintln(s.Out, styles.RenderError(err.Error()))
		}
	}

	fmt.Fprintln(s.Out, DimStyle.Render(fmt.Sprintf("%d message(s) sent this session.", s.sent)))
	return nil
}

func (s *ChatSession) handleLine(ctx context.Context, input string) error {
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return errQuit
	}
	if !strings.HasPrefix(input, "/") {
		return s.send(ctx, input)
	}

	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return errQuit
	case "/help", "/h", "/?":
		fmt.Fprintln(s.Out, chatHelp)
		return nil
	case "/list", "/ls":
		return s.list(ctx)
	case "/edit":
		if len(fields) < 3 {
			return &UsageError{Reason: "usage: /edit <id> <text>"}
		}
		content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input[len(fields[0]):]), fields[1]))
		return s.edit(ctx, fields[1], content)
	case "/delete", "/rm":
		if len(fields) != 2 {
			return &UsageError{Reason: "usage: /delete <id>"}
		}
		return s.delete(ctx, fields[1])
	default:
		return &UsageError{Reason: fmt.Sprintf("unknown command %s (try /help)", fields[0])}
	}
}

func (s *ChatSession) send(ctx context.Context, content string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	res, err := s.Client.SendMessage(ctx, content)
	if err != nil {
		return errors.New(api.ErrorDetail(err, chat.ErrSend))
	}
	s.sent++

	fmt.Fprint(s.Out, BotStyle.Render("ava>")+" ")
	// The reveal runs on its own clock, not the request deadline.
	if err := reveal(context.Background(), s.Out, res.BotResponse.Content, s.Interval); err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	return nil
}

func (s *ChatSession) list(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	msgs, err := s.Client.ListMessages(ctx)
	if err != nil {
		return errors.New(chat.ErrFetch)
	}
	model.SortByTimestamp(msgs)
	if len(msgs) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("No messages yet."))
	}
	for _, m := range msgs {
		printMessage(s.Out, m)
	}
	return nil
}

func (s *ChatSession) edit(ctx context.Context, id, content string) error {
	if content == "" {
		return errors.New(chat.ErrEmptyEdit)
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if _, err := s.Client.EditMessage(ctx, id, content); err != nil {
		return errors.New(api.ErrorDetail(err, chat.ErrEdit))
	}
	fmt.Fprintln(s.Out, styles.RenderSuccess("Message "+id+" updated"))
	return nil
}

func (s *ChatSession) delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if _, err := s.Client.DeleteMessage(ctx, id); err != nil {
		return errors.New(api.ErrorDetail(err, chat.ErrDelete))
	}
	fmt.Fprintln(s.Out, styles.RenderSuccess("Message "+id+" deleted"))
	return nil
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCmd(o *options) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Ava (full-screen, or line mode with --plain)",
		Args:  cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if !plain {
				return runTUI(cmd, args, e)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			_, err := e.auth.Check(ctx)
			cancel()
			if err != nil {
				return requireSession(err)
			}

			in := NewChatCLI()
			defer in.Close()
			s := &ChatSession{
				Client:   e.client,
				Input:    in,
				Out:      cmd.OutOrStdout(),
				Interval: e.cfg.UI.TypingInterval(),
				Timeout:  e.cfg.API.Timeout(),
			}
			return s.Run(cmd.Context())
		}),
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line-mode chat instead of the full-screen UI")
	return cmd
}
