// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, TitleStyle.Render("ava "+Version))
			fmt.Fprintln(w, RenderLabel("Commit")+ValueStyle.Render(GitCommit))
			fmt.Fprintln(w, RenderLabel("Built")+ValueStyle.Render(BuildDate))
			fmt.Fprintln(w, RenderLabel("Go")+ValueStyle.Render(runtime.Version()))
			fmt.Fprintln(w, RenderLabel("Platform")+ValueStyle.Render(runtime.GOOS+"/"+runtime.GOARCH))
		},
	}
}
