// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ava-tui/internal/export"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

func newExportCmd(o *options) *cobra.Command {
	var (
		format   string
		outDir   string
		toStdout bool
		noMeta   bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the conversation as Markdown or JSON",
		Args:  cobra.NoArgs,
		RunE: o.withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			opts := export.DefaultOptions()
			opts.OutputDir = outDir
			opts.IncludeMetadata = !noMeta
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return &UsageError{Reason: err.Error()}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout())
			defer cancel()
			user, err := e.auth.Check(ctx)
			if err != nil {
				return requireSession(err)
			}
			msgs, err := listSorted(ctx, e.client)
			if err != nil {
				return err
			}
			t := export.NewTranscript(user.Email, msgs)

			if toStdout {
				data, err := exporter.Export(t)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path, err := export.ExportToFile(t, exporter, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess(fmt.Sprintf("Exported %d message(s) to %s", len(msgs), path)))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "markdown or json")
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write to stdout instead of a file")
	cmd.Flags().BoolVar(&noMeta, "no-metadata", false, "omit the front matter block")
	return cmd
}
